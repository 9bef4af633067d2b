package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/visualnotes/visualnotes/pkg/buildinfo"
	"github.com/visualnotes/visualnotes/pkg/errors"
	vnio "github.com/visualnotes/visualnotes/pkg/io"
	"github.com/visualnotes/visualnotes/pkg/pipeline"
	"github.com/visualnotes/visualnotes/pkg/replay"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"formats": pipeline.FormatNames()})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Counters.Snapshot())
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	scene, err := s.runner.Scene(r.Context(), chi.URLParam(r, "hash"))
	if errors.Is(err, errors.ErrCodeNotFound) {
		writeError(w, http.StatusNotFound, string(errors.ErrCodeNotFound), errors.UserMessage(err))
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := vnio.WriteJSON(w, scene); err != nil {
		s.logger.Warn("write scene failed", "err", err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r.URL.Query())
	if err != nil {
		s.fail(w, err)
		return
	}
	scene, err := vnio.ReadJSON(r.Body)
	if err != nil {
		s.fail(w, asInput(err, "scene"))
		return
	}
	s.render(w, r, scene, opts)
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r.URL.Query())
	if err != nil {
		s.fail(w, err)
		return
	}
	script, err := replay.Read(r.Body)
	if err != nil {
		s.fail(w, asInput(err, "script"))
		return
	}
	if r.URL.Query().Get("width") == "" && script.Canvas.Width > 0 {
		opts.Width = script.Canvas.Width
	}
	if r.URL.Query().Get("height") == "" && script.Canvas.Height > 0 {
		opts.Height = script.Canvas.Height
	}

	board, err := script.NewBoard(whiteboard.WithLogger(s.logger))
	if err != nil {
		s.fail(w, err)
		return
	}
	defer board.Close()
	if err := replay.Run(r.Context(), board, script, replay.WithLogger(s.logger)); err != nil {
		s.fail(w, err)
		return
	}
	s.render(w, r, board.Scene(), opts)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, scene whiteboard.Scene, opts pipeline.Options) {
	result, err := s.runner.Execute(r.Context(), scene, opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	format := opts.Formats[0]
	data := result.Artifacts[format]

	h := w.Header()
	h.Set("Content-Type", pipeline.ContentType(format))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("X-Scene-Hash", result.SceneHash)
	if result.CacheHit {
		h.Set("X-Cache", "hit")
	} else {
		h.Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// options builds render options from the server defaults and the query.
// Exactly one format is rendered per request.
func (s *Server) options(q url.Values) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Logger = s.logger

	if f := q.Get("format"); f != "" {
		if err := pipeline.ValidateFormat(f); err != nil {
			return opts, err
		}
		opts.Formats = []string{f}
	}
	if t := q.Get("theme"); t != "" {
		opts.Theme = t
	}
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"width", &opts.Width}, {"height", &opts.Height}, {"scale", &opts.Scale}} {
		if v := q.Get(p.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: not a number: %q", p.name, v)
			}
			*p.dst = f
		}
	}
	for _, p := range []struct {
		name string
		dst  *bool
	}{{"grid", &opts.NoGrid}, {"minimap", &opts.NoMinimap}} {
		if v := q.Get(p.name); v != "" {
			on, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: not a boolean: %q", p.name, v)
			}
			*p.dst = !on
		}
	}
	opts.Refresh = q.Get("refresh") != "" && q.Get("refresh") != "false"
	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	switch {
	case status == http.StatusRequestEntityTooLarge:
		code = "REQUEST_TOO_LARGE"
	case code == "":
		code = string(errors.ErrCodeInternal)
	}
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "code", code, "err", err)
	}
	writeError(w, status, code, errors.UserMessage(err))
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return errors.HTTPStatus(err)
}

// asInput marks undecodable bodies as invalid input.
func asInput(err error, what string) error {
	var tooLarge *http.MaxBytesError
	if errors.GetCode(err) != "" || stderrors.As(err, &tooLarge) {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s: %s", what, strings.TrimPrefix(err.Error(), "decode: "))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}
