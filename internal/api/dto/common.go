package dto

// HealthResponse reports the server status
type HealthResponse struct {
	Status    string `json:"status"`
	Templates int    `json:"templates"`
}
