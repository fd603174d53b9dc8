package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type (
	responseInfo struct {
		status int
		size   int
	}

	logResponseWriter struct {
		http.ResponseWriter
		responseInfo *responseInfo
	}
)

func (res *logResponseWriter) Write(b []byte) (int, error) {
	size, err := res.ResponseWriter.Write(b)
	res.responseInfo.size += size
	return size, err
}

func (res *logResponseWriter) WriteHeader(statusCode int) {
	res.ResponseWriter.WriteHeader(statusCode)
	res.responseInfo.status = statusCode
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
			start := time.Now()
			info := &responseInfo{status: http.StatusOK}
			h.ServeHTTP(&logResponseWriter{ResponseWriter: res, responseInfo: info}, req)

			log.Info().
				Str("request_id", middleware.GetReqID(req.Context())).
				Str("uri", req.RequestURI).
				Str("method", req.Method).
				Int("status", info.status).
				Int("size", info.size).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
