package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/kevincoe/bankcore/internal/database"
	"github.com/kevincoe/bankcore/internal/quotes"
)

// SystemHandlers exposes runtime and database diagnostics
type SystemHandlers struct {
	log     zerolog.Logger
	bankDB  *database.DB
	quoteSv *quotes.Service
	started time.Time
}

// NewSystemHandlers creates system handlers
func NewSystemHandlers(log zerolog.Logger, bankDB *database.DB, quoteSv *quotes.Service) *SystemHandlers {
	return &SystemHandlers{
		log:     log.With().Str("component", "system_handlers").Logger(),
		bankDB:  bankDB,
		quoteSv: quoteSv,
		started: time.Now(),
	}
}

// SystemStatus describes the current process and host state
type SystemStatus struct {
	Status        string                       `json:"status"`
	UptimeSeconds float64                      `json:"uptimeSeconds"`
	CPUPercent    float64                      `json:"cpuPercent"`
	MemoryPercent float64                      `json:"memoryPercent"`
	MemoryUsedMB  float64                      `json:"memoryUsedMb"`
	Goroutines    int                          `json:"goroutines"`
	QuoteCaches   map[string]quotes.CacheStats `json:"quoteCaches"`
}

// HandleSystemStatus returns process health plus host CPU and memory usage
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	status := SystemStatus{
		Status:        "ok",
		UptimeSeconds: time.Since(h.started).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		QuoteCaches:   h.quoteSv.CacheStats(),
	}

	if percents, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	} else if err != nil {
		h.log.Warn().Err(err).Msg("Failed to read CPU usage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemoryPercent = vm.UsedPercent
		status.MemoryUsedMB = float64(vm.Used) / 1024 / 1024
	} else {
		h.log.Warn().Err(err).Msg("Failed to read memory usage")
	}

	h.writeJSON(w, status)
}

// HandleDatabaseStats returns connection pool and file statistics
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.bankDB.GetStats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to collect database stats")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "failed to collect database stats"})
		return
	}
	h.writeJSON(w, stats)
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
