package dto

// HealthResponse is the GET /health body: `{status,service,version}`.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
