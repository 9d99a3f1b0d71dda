package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"monochrome/internal/palette"
	"monochrome/internal/service"
	"monochrome/internal/stylesheet"
	"monochrome/internal/ui"
)

var errBadBody = errors.New("malformed request body")

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type paletteView struct {
	Palette palette.Palette       `json:"palette"`
	Scheme  stylesheet.Descriptor `json:"scheme"`
}

// commandView is the payload of the randomize and set commands
type commandView struct {
	CSS  string        `json:"css"`
	Base palette.Color `json:"base"`
}

type setRequest struct {
	Color string `json:"color"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func writeCSS(w http.ResponseWriter, css string, maxAge string) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", maxAge)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(css))
}

// internalError logs err and answers with a generic 500
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	ui.LogStatus("error", r.Method+" "+r.URL.Path+": "+err.Error())
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) handleGetPalette(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Palette(r.Context(), userFrom(r.Context()))
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeData(w, paletteView{
		Palette: p,
		Scheme:  s.svc.Renderer().Scheme.Descriptor(p),
	})
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	css, err := s.svc.Stylesheet(r.Context(), userFrom(r.Context()))
	if err != nil {
		internalError(w, r, err)
		return
	}
	// Per-user content; a randomize must show on the next load
	writeCSS(w, css, "private, no-cache")
}

func (s *Server) handleRandomize(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Randomize(r.Context(), userFrom(r.Context()))
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeCommand(w, res)
}

func (s *Server) handleSetBase(w http.ResponseWriter, r *http.Request) {
	input, err := colorField(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.svc.SetBase(r.Context(), userFrom(r.Context()), input)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeCommand(w, res)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset(r.Context(), userFrom(r.Context())); err != nil {
		internalError(w, r, err)
		return
	}
	writeData(w, nil)
}

func (s *Server) handlePickerStyles(w http.ResponseWriter, r *http.Request) {
	css, err := s.svc.Renderer().PickerStyles()
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeCSS(w, css, "public, max-age=300")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeCommand(w http.ResponseWriter, res service.Result) {
	writeData(w, commandView{CSS: res.CSS, Base: res.Base})
}

// colorField reads the "color" field from a JSON body or a form.
// A missing field yields "", which the service treats as black.
func colorField(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req setRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", errBadBody
		}
		return req.Color, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", errBadBody
	}
	return r.PostForm.Get("color"), nil
}
