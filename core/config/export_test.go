package config

// Reset drops cached values between tests.
var Reset = reset
