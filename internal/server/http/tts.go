package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ekisa-team/voicestudio/internal/catalog"
	"github.com/ekisa-team/voicestudio/internal/service"
	"github.com/ekisa-team/voicestudio/internal/synthesis"
)

// Client-facing error messages.
const (
	MsgMissingPermission = "Your ElevenLabs API key is missing the voices_read permission. Enable it in the ElevenLabs dashboard."
	MsgUnauthorized      = "Invalid or unauthorized ElevenLabs API key. Check your key."
	MsgUnreachable       = "Unable to reach ElevenLabs. Check your connection and try again."
	MsgInvalidJSON       = "Invalid JSON payload"
	MsgInvalidInput      = "Invalid input: "
	MsgSynthesisFailed   = "Synthesis service failed. Please try again."
	MsgConfigUnavailable = "Server configuration is unavailable. Please try again later."
)

const (
	maxRequestBody = 1 << 20
	streamChunk    = 32 << 10
)

type voicesResponse struct {
	Voices []catalog.Voice `json:"voices"`
}

// TTSHandler handles HTTP requests for TTS.
type TTSHandler struct {
	service *service.TTS
}

// NewTTSHandler creates a new TTSHandler instance.
func NewTTSHandler(service *service.TTS) *TTSHandler {
	return &TTSHandler{service: service}
}

// Voices lists the provider voices.
func (h *TTSHandler) Voices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.service.Voices(r.Context())
	if err != nil {
		slog.Error("Failed to list voices",
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, voicesErrorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, voicesResponse{Voices: voices})
}

// voicesErrorMessage picks the user-facing message from the failure detail.
func voicesErrorMessage(err error) string {
	detail := err.Error()
	switch {
	case strings.Contains(detail, "missing_permissions"), strings.Contains(detail, "missing permissions"):
		return MsgMissingPermission
	case strings.Contains(detail, "401"):
		return MsgUnauthorized
	default:
		return MsgUnreachable
	}
}

// Synthesize validates the payload and relays the rendered audio.
func (h *TTSHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	reqID := chimiddleware.GetReqID(r.Context())

	payload, err := decodePayload(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidJSON)
		return
	}

	req, err := h.service.Validate(payload)
	if err != nil {
		var verr *synthesis.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, MsgInvalidInput+verr.Message)
			return
		}
		slog.Error("Failed to validate request", "request_id", reqID, "error", err)
		writeError(w, http.StatusInternalServerError, MsgConfigUnavailable)
		return
	}

	audio, err := h.service.Synthesize(r.Context(), req)
	if err != nil {
		slog.Error("Synthesis failed",
			"request_id", reqID,
			"voice_id", req.VoiceID,
			"language", req.Language,
			"error", err,
		)
		writeError(w, http.StatusBadGateway, MsgSynthesisFailed)
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	n, err := relay(w, audio)
	if err != nil {
		slog.Warn("Audio stream ended early", "request_id", reqID, "bytes", n, "error", err)
		return
	}

	slog.Debug("Audio relayed", "request_id", reqID, "bytes", n)
}

// decodePayload decodes exactly one JSON value from body.
func decodePayload(body io.Reader) (any, error) {
	dec := json.NewDecoder(body)

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}

	return payload, nil
}

// relay copies src to w, flushing after every chunk.
func relay(w http.ResponseWriter, src io.Reader) (int64, error) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, streamChunk)

	var total int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			written, werr := w.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if rerr == io.EOF {
			return total, nil
		}
		if rerr != nil {
			return total, rerr
		}
	}
}
