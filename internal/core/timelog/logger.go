package timelog

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Record is one logged work session.
type Record struct {
	ID              string    `json:"id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes float64   `json:"duration_minutes"`
	SessionType     string    `json:"session_type"`
	Completed       bool      `json:"completed"`
	PetName         string    `json:"vpet_name"`
}

type logFile struct {
	Sessions    []Record  `json:"sessions"`
	LastUpdated time.Time `json:"last_updated"`
}

// Logger appends work session records to a JSON log file. A corrupted or
// missing log is treated as empty; write failures are logged but never
// fatal.
type Logger struct {
	mu       sync.Mutex
	path     string
	log      zerolog.Logger
	now      func() time.Time
	current  *Record
	sessions []Record
}

// NewLogger creates a Logger backed by the given file, loading any
// existing records.
func NewLogger(path string, log zerolog.Logger) *Logger {
	logger := &Logger{
		path: path,
		log:  log,
		now:  time.Now,
	}
	logger.load()
	return logger
}

// StartSession opens a new work session. It returns false when one is
// already active.
func (logger *Logger) StartSession(petName string) bool {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	if logger.current != nil {
		logger.log.Warn().Msg("work session already active")
		return false
	}

	logger.current = &Record{
		ID:          uuid.NewString(),
		StartTime:   logger.now(),
		SessionType: "work",
		PetName:     petName,
	}
	logger.log.Info().
		Str("pet", petName).
		Time("start", logger.current.StartTime).
		Msg("work session started")
	return true
}

// StopSession closes the active session, computes its duration, appends
// it to the log and persists. It returns false when nothing is active.
func (logger *Logger) StopSession(completed bool) bool {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	return logger.stopLocked(completed)
}

// PauseSession closes the active session as interrupted. The next
// StartSession opens a fresh record.
func (logger *Logger) PauseSession() bool {
	return logger.StopSession(false)
}

// Active reports whether a work session is open.
func (logger *Logger) Active() bool {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	return logger.current != nil
}

// CurrentDuration returns the minutes elapsed in the active session.
func (logger *Logger) CurrentDuration() (float64, bool) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	if logger.current == nil {
		return 0, false
	}
	return roundMinutes(logger.now().Sub(logger.current.StartTime)), true
}

// CleanupOnExit closes any dangling session as interrupted. Call before
// application shutdown.
func (logger *Logger) CleanupOnExit() {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	if logger.current != nil {
		logger.log.Info().Msg("closing active work session on exit")
		logger.stopLocked(false)
	}
}

// Sessions returns a copy of all logged records.
func (logger *Logger) Sessions() []Record {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	sessions := make([]Record, len(logger.sessions))
	copy(sessions, logger.sessions)
	return sessions
}

func (logger *Logger) stopLocked(completed bool) bool {
	if logger.current == nil {
		logger.log.Warn().Msg("no active work session to stop")
		return false
	}

	record := *logger.current
	record.EndTime = logger.now()
	record.Completed = completed
	record.DurationMinutes = roundMinutes(record.EndTime.Sub(record.StartTime))

	logger.sessions = append(logger.sessions, record)
	logger.current = nil
	logger.saveLocked()

	status := "completed"
	if !completed {
		status = "interrupted"
	}
	logger.log.Info().
		Str("status", status).
		Float64("minutes", record.DurationMinutes).
		Msg("work session stopped")
	return true
}

func (logger *Logger) load() {
	data, err := os.ReadFile(logger.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.log.Error().Err(err).Str("path", logger.path).Msg("read session log")
		}
		return
	}

	var file logFile
	if err := json.Unmarshal(data, &file); err != nil {
		logger.log.Error().Err(err).Str("path", logger.path).Msg("corrupted session log, starting empty")
		return
	}
	logger.sessions = file.Sessions
	logger.log.Info().Int("sessions", len(logger.sessions)).Msg("session log loaded")
}

func (logger *Logger) saveLocked() {
	file := logFile{
		Sessions:    logger.sessions,
		LastUpdated: logger.now(),
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		logger.log.Error().Err(err).Msg("marshal session log")
		return
	}
	if err := os.MkdirAll(filepath.Dir(logger.path), 0o755); err != nil {
		logger.log.Error().Err(err).Msg("create session log directory")
		return
	}
	if err := os.WriteFile(logger.path, data, 0o644); err != nil {
		logger.log.Error().Err(err).Str("path", logger.path).Msg("write session log")
	}
}

func roundMinutes(elapsed time.Duration) float64 {
	return math.Round(elapsed.Minutes()*100) / 100
}

// DefaultLogPath returns the session log location under the user data
// directory.
func DefaultLogPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, "work_sessions.json"), nil
}
