package http

/**
 * @author: gagral.x@gmail.com
 * @file: http_code.go
 * @description:
 */

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")

	// Unauthorized 401
	Unauthorized       = failed(4401, "Unauthorized")
	AuthorizationEmpty = failed(4404, "Authorization is empty")
	InvalidToken       = failed(4405, "Invalid token")
	TokenBeEmpty       = failed(4406, "Token cannot be empty")
	TokenExpired       = failed(4407, "Token is expired")

	// BadRequest 400
	BadRequest     = failed(4000, "Bad request")
	NotFound       = failed(4004, "Not found")
	InvalidPayload = failed(4005, "Invalid payload")
	Conflict       = failed(4009, "Conflict")

	// Forbidden 403
	Forbidden        = failed(4030, "Forbidden")
	PermissionDenied = failed(4031, "Permission denied")

	InternalError = failed(5000, "Internal error, please contact the administrator")
)

var (
	Success = success(200, "Request Success")
)

// failed 构造函数
func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
