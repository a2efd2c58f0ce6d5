package config

import "os"

type HttpConfig struct {
	Port string
}

func NewHttpConfig() *HttpConfig {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	return &HttpConfig{
		Port: port,
	}
}
