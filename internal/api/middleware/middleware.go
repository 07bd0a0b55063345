package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// Logger logs every request after it has been served.
func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	chain.ProcessFilter(req, resp)

	log.Info().
		Str("method", req.Request.Method).
		Str("path", req.Request.URL.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("request served")
}

// RecoverPanic turns a handler panic into a 500 response.
func RecoverPanic(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("path", req.Request.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			HandleError(resp, nil, http.StatusInternalServerError)
		}
	}()
	chain.ProcessFilter(req, resp)
}

func HandleError(resp *restful.Response, err error, status int) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	_ = resp.WriteHeaderAndEntity(status, ErrorResponse{Error: msg, Code: status})
}
