// Package response writes JSON, text and structured error responses.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		if err := decode(r); err != nil {
//			_ = response.Error(w, response.ErrBadRequest.WithError(err))
//			return
//		}
//		_ = response.JSON(w, result)
//	}
//
// Error responses have the shape:
//
//	{"error": {"code": "bad_request", "message": "Bad Request", "details": {"cause": "..."}}}
package response
