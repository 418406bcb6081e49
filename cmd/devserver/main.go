// Command devserver runs a local stand-in for the StormBuddi backend so the
// client shell can be exercised without production credentials.
//
// The subscription fixture is switchable at startup:
//
//	FIXTURE=active        status endpoint reports an active subscription
//	FIXTURE=expired       status endpoint reports an expired subscription
//	FIXTURE=legacy        status endpoint returns 404, profile carries the
//	                      subscription (exercises the fallback path)
//	FIXTURE=flaky         status endpoint returns 500 (exercises fail-open)
//	FIXTURE=unauthorized  both endpoints return 401 (exercises the cascade)
//
// ADDR and FIXTURE are read from the environment, with .env supported.
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	fixture := os.Getenv("FIXTURE")
	if fixture == "" {
		fixture = "active"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	s := &server{fixture: fixture}

	r.Route("/api/mobile", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/logout", s.logout)
		r.Get("/subscription/status", s.subscriptionStatus)
		r.Get("/profile", s.profile)
	})

	log.Info().Str("addr", addr).Str("fixture", fixture).Msg("devserver listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("took", time.Since(start)).
				Msg("request")
		})
	}
}

type server struct {
	fixture string
}

func writeJSON(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func (s *server) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") != "" && s.fixture != "unauthorized"
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, `{"success":true,"data":{"token":"dev-token"}}`)
}

func (s *server) logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, `{"success":true}`)
}

func (s *server) subscriptionStatus(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"unauthenticated"}`)
		return
	}

	switch s.fixture {
	case "expired":
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"subscription_status":"expired"}}`)
	case "legacy":
		w.WriteHeader(http.StatusNotFound)
	case "flaky":
		writeJSON(w, http.StatusInternalServerError, `{"message":"something broke"}`)
	default:
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"subscription_status":"active"}}`)
	}
}

func (s *server) profile(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"unauthenticated"}`)
		return
	}

	if s.fixture == "legacy" {
		writeJSON(w, http.StatusOK, `{"data":{"name":"Dev Roofer","subscription":{"status":"Trial_Expired"}}}`)
		return
	}
	writeJSON(w, http.StatusOK, `{"data":{"name":"Dev Roofer","subscription":{"status":"active"}}}`)
}
