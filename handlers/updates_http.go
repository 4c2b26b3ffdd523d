package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"macrofeed/core"
	"macrofeed/models/api"
	"macrofeed/services"
)

// MaxWebhookBodyBytes bounds the size of a single webhook request body
const MaxWebhookBodyBytes = 1 << 20

type UpdatesHTTPHandler struct {
	updatesService services.UpdatesService
	macrosService  services.MacrosService
}

func NewUpdatesHTTPHandler(
	updatesService services.UpdatesService,
	macrosService services.MacrosService,
) *UpdatesHTTPHandler {
	return &UpdatesHTTPHandler{
		updatesService: updatesService,
		macrosService:  macrosService,
	}
}

func (h *UpdatesHTTPHandler) HandleMacroWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxWebhookBodyBytes))
	if err != nil {
		err = fmt.Errorf("%w: failed to read request body: %v", core.ErrMalformedPayload, err)
		h.writeWebhookError(w, err)
		return
	}

	payload, err := parseWebhookPayload(body)
	if err != nil {
		h.writeWebhookError(w, err)
		return
	}

	if _, err := h.updatesService.AppendUpdate(r.Context(), payload); err != nil {
		h.writeWebhookError(w, err)
		return
	}

	summary := payload.Content
	if summary == "" {
		summary = "Embed message"
	}
	log.Printf("📨 [%s] Received update: %s", payload.Macro, summary)

	h.writeJSONResponse(w, http.StatusOK, api.SuccessResponse{
		Success: true,
		Message: "Macro update received",
	})
}

func (h *UpdatesHTTPHandler) HandleListMacros(w http.ResponseWriter, r *http.Request) {
	macros, err := h.macrosService.GetConfiguredMacros(r.Context())
	if err != nil {
		log.Printf("❌ Failed to get configured macros: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.DomainMacrosToAPIMacroNames(macros))
}

func (h *UpdatesHTTPHandler) HandleListUpdates(w http.ResponseWriter, r *http.Request) {
	macro := mux.Vars(r)["macro"]

	updates, err := h.updatesService.GetUpdates(r.Context(), macro)
	if err != nil {
		log.Printf("❌ Failed to get updates for %s: %v", macro, err)
		h.writeJSONResponse(w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.DomainUpdatesToAPIUpdates(updates))
}

func (h *UpdatesHTTPHandler) HandleGetUpdate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	macro := vars["macro"]

	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		h.writeJSONResponse(w, http.StatusNotFound, api.ErrorResponse{Error: "Update not found"})
		return
	}

	maybeUpdate, err := h.updatesService.GetUpdateByID(r.Context(), macro, id)
	if err != nil {
		log.Printf("❌ Failed to get update %d for %s: %v", id, macro, err)
		h.writeJSONResponse(w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	if !maybeUpdate.IsPresent() {
		h.writeJSONResponse(w, http.StatusNotFound, api.ErrorResponse{Error: "Update not found"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, maybeUpdate.MustGet())
}

func (h *UpdatesHTTPHandler) HandleClearUpdates(w http.ResponseWriter, r *http.Request) {
	macro := mux.Vars(r)["macro"]

	if err := h.updatesService.ClearUpdates(r.Context(), macro); err != nil {
		log.Printf("❌ Failed to clear updates for %s: %v", macro, err)
		h.writeJSONResponse(w, http.StatusInternalServerError, api.FailureResponse{Error: "internal server error"})
		return
	}

	log.Printf("🧹 [%s] Updates cleared", macro)
	h.writeJSONResponse(w, http.StatusOK, api.SuccessResponse{
		Success: true,
		Message: fmt.Sprintf("Updates cleared for %s", macro),
	})
}

func (h *UpdatesHTTPHandler) HandleClearAllUpdates(w http.ResponseWriter, r *http.Request) {
	if err := h.updatesService.ClearAllUpdates(r.Context()); err != nil {
		log.Printf("❌ Failed to clear all updates: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError, api.FailureResponse{Error: "internal server error"})
		return
	}

	log.Printf("🧹 All updates cleared")
	h.writeJSONResponse(w, http.StatusOK, api.SuccessResponse{
		Success: true,
		Message: "All updates cleared",
	})
}

func (h *UpdatesHTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

func (h *UpdatesHTTPHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/webhook/macro", h.HandleMacroWebhook).Methods("POST")
	log.Printf("✅ POST /webhook/macro endpoint registered")

	router.HandleFunc("/api/macros", h.HandleListMacros).Methods("GET")
	log.Printf("✅ GET /api/macros endpoint registered")

	router.HandleFunc("/api/updates/{macro}", h.HandleListUpdates).Methods("GET")
	log.Printf("✅ GET /api/updates/{macro} endpoint registered")

	router.HandleFunc("/api/updates/{macro}/{id}", h.HandleGetUpdate).Methods("GET")
	log.Printf("✅ GET /api/updates/{macro}/{id} endpoint registered")

	router.HandleFunc("/api/clear-all", h.HandleClearAllUpdates).Methods("POST")
	log.Printf("✅ POST /api/clear-all endpoint registered")

	router.HandleFunc("/api/clear/{macro}", h.HandleClearUpdates).Methods("POST")
	log.Printf("✅ POST /api/clear/{macro} endpoint registered")

	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	log.Printf("✅ GET /health endpoint registered")
}

// writeWebhookError reports bad input as 400 with the error text and anything else as a 500
func (h *UpdatesHTTPHandler) writeWebhookError(w http.ResponseWriter, err error) {
	log.Printf("❌ Webhook error: %v", err)
	if core.IsMalformedPayloadError(err) {
		h.writeJSONResponse(w, http.StatusBadRequest, api.FailureResponse{Success: false, Error: err.Error()})
		return
	}
	h.writeJSONResponse(w, http.StatusInternalServerError, api.FailureResponse{Success: false, Error: "internal server error"})
}

func (h *UpdatesHTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
