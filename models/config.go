package models

// Config holds the process-level settings loaded once at startup.
type Config struct {
	Host     string
	Token    string
	AdminID  string
	SavePath string
}
