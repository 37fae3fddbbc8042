package config

const (
	apiBaseURLVar   = "API_BASE_URL"
	dashboardURLVar = "DASHBOARD_URL"
)

func (c mainConfig) GetAPIBaseURL() string {
	return c.get(apiBaseURLVar, "http://localhost:8080")
}

// GetDashboardURL is the external page failed entry links are sent back to.
func (c mainConfig) GetDashboardURL() string {
	return c.get(dashboardURLVar, "http://localhost:3000/dashboard")
}
