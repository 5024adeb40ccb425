// Sidle
// Copyright (c) 2026 The Sidle Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Sidle.
//
// Sidle is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sidle is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Sidle.  If not, see <http://www.gnu.org/licenses/>.

// Package api serves the local HTTP control surface and the websocket
// notification stream.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/api/methods"
	"github.com/sidle-app/sidle/pkg/api/middleware"
	"github.com/sidle-app/sidle/pkg/api/models"
	"github.com/sidle-app/sidle/pkg/config"
)

// broadcastNotifications forwards service events to every connected
// websocket client until ctx is cancelled.
func broadcastNotifications(
	ctx context.Context,
	session *melody.Melody,
	notifications <-chan models.Notification,
) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("api: stopping notification broadcaster")
			return
		case notif := <-notifications:
			data, err := json.Marshal(notif)
			if err != nil {
				log.Error().Err(err).Msg("api: marshalling notification")
				continue
			}
			if err := session.Broadcast(data); err != nil {
				log.Error().Err(err).Msg("api: broadcasting notification")
			}
		}
	}
}

// handleWSMessage answers websocket heartbeats. The stream is
// otherwise one-way: state changes go through the REST surface.
func handleWSMessage(session *melody.Session, msg []byte) {
	if bytes.Equal(msg, []byte("ping")) {
		if err := session.Write([]byte("pong")); err != nil {
			log.Error().Err(err).Msg("api: sending pong")
		}
	}
}

func buildRouter(env methods.Env, session *melody.Melody, limiter *middleware.IPRateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.NoCache)
	r.Use(chimiddleware.Timeout(config.APIRequestTimeout))
	r.Use(middleware.RateLimit(limiter))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	r.Get("/api/ws", func(w http.ResponseWriter, r *http.Request) {
		if err := session.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("api: handling websocket request")
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{
				"name":    config.AppName,
				"version": config.AppVersion,
			})
		})

		r.Post("/games/start", methods.HandleStartGame(env))
		r.Post("/games/stop", methods.HandleStopGame(env))
		r.Get("/games/running", methods.HandleRunningGames(env))
		r.Get("/games/{gameID}/status", methods.HandleGameStatus(env))
		r.Get("/games/{gameID}/session", methods.HandleSessionTime(env))
		r.Get("/games/{gameID}/info", methods.HandleFetchGame(env))
		r.Post("/games/detect", methods.HandleDetectRunning(env))
		r.Post("/games/emergency-stop", methods.HandleEmergencyStop(env))

		r.Get("/presets", methods.HandleListPresets(env))
		r.Post("/presets", methods.HandleSavePreset(env))
		r.Get("/presets/{name}", methods.HandleGetPreset(env))
		r.Delete("/presets/{name}", methods.HandleDeletePreset(env))
		r.Post("/presets/run", methods.HandleRunPreset(env))
		r.Post("/presets/stop", methods.HandleStopPreset(env))

		r.Get("/goals", methods.HandleListGoals(env))
		r.Post("/goals", methods.HandleSetGoal(env))
		r.Delete("/goals/{id}", methods.HandleDeleteGoal(env))

		r.Get("/settings", methods.HandleGetSettings(env))
		r.Put("/settings", methods.HandleUpdateSettings(env))

		r.Get("/stats", methods.HandleStatistics(env))
		r.Get("/stats/export", methods.HandleExport(env))

		r.Get("/steam/status", methods.HandleSteamStatus(env))
		r.Post("/steam/launch", methods.HandleLaunchSteam(env))
	})

	return r
}

// Start serves the API on the configured port until ctx is cancelled.
// It blocks and always returns a non-nil error; on clean shutdown that
// error is ctx.Err().
func Start(ctx context.Context, env methods.Env, notifications <-chan models.Notification) error {
	session := melody.New()
	session.Upgrader.CheckOrigin = func(_ *http.Request) bool { return true }
	session.HandleMessage(handleWSMessage)
	go broadcastNotifications(ctx, session, notifications)

	limiter := middleware.NewIPRateLimiter()
	limiter.StartCleanup(ctx)

	addr := ":" + strconv.Itoa(env.Config.APIPort())
	srv := &http.Server{
		Addr:              addr,
		Handler:           buildRouter(env, session, limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("api: server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("api: server shutdown")
		}
		if err := session.Close(); err != nil {
			log.Debug().Err(err).Msg("api: closing websocket sessions")
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return ctx.Err()
		}
		return err
	}
}
