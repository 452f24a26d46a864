package types

// Response is what every service method returns. Handlers hand it to the
// "send" function installed by the response middleware.
type Response struct {
	Code    int
	Message string
	Data    any
	Error   error
}

// ResponseError is the JSON body written for 4xx and 5xx responses.
type ResponseError struct {
	Error string `json:"error"`
}

// ResponseMessage is the JSON body for plain acknowledgements.
type ResponseMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
