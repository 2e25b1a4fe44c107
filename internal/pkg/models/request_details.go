package models

// RequestDetails is the access log entry written once per HTTP request.
type RequestDetails struct {
	RequestID      string            `json:"requestId"`
	IP             string            `json:"ip"`
	UserAgent      string            `json:"userAgent"`
	HTTPMethod     string            `json:"httpMethod"`
	Path           string            `json:"path"`
	OperationName  string            `json:"operationName"`
	RequestTime    string            `json:"requestTime"`
	RequestHeaders map[string]string `json:"requestHeaders,omitempty"`
	Status         int               `json:"status,omitempty"`
	ResponseTime   string            `json:"responseTime,omitempty"`
}
