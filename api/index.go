package handler

import (
	"net/http"
	"sync"

	"airpark/config"
	"airpark/di"
	"airpark/shared/logger"
	transport "airpark/transport/http"
)

var (
	server *transport.HTTP
	once   sync.Once
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		logger.InitLogger(config.Get())

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
