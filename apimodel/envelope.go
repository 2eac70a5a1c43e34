package apimodel

import "encoding/json"

// Code is the application-level status carried in every response envelope.
// It is independent of the HTTP status code.
type Code int

const (
	// CodeOK marks a successful call. The payload is in Envelope.Data.
	CodeOK Code = 0

	// CodeUnauthorized is returned when no access token was sent.
	CodeUnauthorized Code = 1001

	// CodeTokenInvalid is returned when the access token is unknown to the server.
	// Fatal for the session: the client logs out and does not retry.
	CodeTokenInvalid Code = 1002

	// CodeTokenExpired is returned when the access token is known but expired.
	// Recoverable: the client refreshes and retries.
	CodeTokenExpired Code = 1003

	// CodeInvalidCredentials is returned by login on a bad username or password.
	CodeInvalidCredentials Code = 1004

	// CodeRefreshTokenInvalid is returned by refresh when the refresh token is unknown.
	CodeRefreshTokenInvalid Code = 1005

	// CodeRefreshTokenExpired is returned by refresh when the refresh token is expired.
	CodeRefreshTokenExpired Code = 1006

	// CodeTooManyAttempts is returned by login while failed-login throttling is active.
	// Only emitted when rate limiting is enabled on the backend.
	CodeTooManyAttempts Code = 1007

	// CodeMissingCredentials is returned by login when username or password is empty.
	CodeMissingCredentials Code = 3000

	// CodeMissingRefreshToken is returned by refresh when the body carries no token.
	CodeMissingRefreshToken Code = 3001
)

// Messages sent by the reference backend. Clients surface them verbatim.
const (
	MsgLoginOK             = "登录成功"
	MsgRefreshOK           = "token 刷新成功"
	MsgUserInfoOK          = "获取成功"
	MsgMissingCredentials  = "用户名和密码不能为空"
	MsgInvalidCredentials  = "用户名或密码错误"
	MsgMissingRefreshToken = "refreshToken 不能为空"
	MsgRefreshTokenInvalid = "refreshToken 无效"
	MsgRefreshTokenExpired = "refreshToken 已过期"
	MsgUnauthorized        = "未授权，请先登录"
	MsgTokenInvalid        = "token 无效"
	MsgTokenExpired        = "token 已过期"
	MsgTooManyAttempts     = "登录尝试过于频繁"
)

// Envelope wraps every response body sent by the backend.
// Example: {"code":0,"msg":"获取成功","data":{...}}
type Envelope struct {
	// Code is 0 on success, otherwise one of the Code constants.
	Code Code `json:"code"`

	// Msg is a human readable message, shown to the user on failure.
	Msg string `json:"msg"`

	// Data holds the payload on success and null on failure.
	Data json.RawMessage `json:"data"`
}

// Err returns nil for a successful envelope and a *CodeError otherwise.
func (e Envelope) Err() error {
	if e.Code == CodeOK {
		return nil
	}
	return &CodeError{Code: e.Code, Msg: e.Msg}
}

// NewEnvelope builds an envelope around an arbitrary payload.
func NewEnvelope(code Code, msg string, data any) (Envelope, error) {
	env := Envelope{Code: code, Msg: msg}
	if data == nil {
		env.Data = json.RawMessage("null")
		return env, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	env.Data = raw
	return env, nil
}
