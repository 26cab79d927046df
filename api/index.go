package handler

import (
	"net/http"

	"staybook/config"
	"staybook/di"
	"staybook/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	di.InitializeService().Handler().ServeHTTP(w, r)
}
