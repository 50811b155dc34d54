package models

// HealthCheckResponse returned by the /health route
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
