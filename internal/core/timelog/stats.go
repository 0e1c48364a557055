package timelog

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// DayStats summarizes the sessions of one calendar day.
type DayStats struct {
	Date                string  `json:"date"`
	TotalMinutes        float64 `json:"total_minutes"`
	TotalHours          float64 `json:"total_hours"`
	SessionCount        int     `json:"session_count"`
	CompletedSessions   int     `json:"completed_sessions"`
	InterruptedSessions int     `json:"interrupted_sessions"`
}

// PetStats aggregates sessions attributed to one pet.
type PetStats struct {
	TotalMinutes        float64 `json:"total_minutes"`
	TotalHours          float64 `json:"total_hours"`
	SessionCount        int     `json:"session_count"`
	CompletedSessions   int     `json:"completed_sessions"`
	InterruptedSessions int     `json:"interrupted_sessions"`
	SuccessRate         float64 `json:"success_rate"`
}

// TodayStats returns the aggregate for today's sessions.
func (logger *Logger) TodayStats() DayStats {
	logger.mu.Lock()
	defer logger.mu.Unlock()

	today := dateOf(logger.now())
	stats := DayStats{Date: today}
	for _, session := range logger.sessions {
		if dateOf(session.StartTime) != today {
			continue
		}
		stats.TotalMinutes += session.DurationMinutes
		stats.SessionCount++
		if session.Completed {
			stats.CompletedSessions++
		} else {
			stats.InterruptedSessions++
		}
	}
	stats.TotalMinutes = round2(stats.TotalMinutes)
	stats.TotalHours = round2(stats.TotalMinutes / 60)
	return stats
}

// StatsByPet groups all sessions by pet name.
func (logger *Logger) StatsByPet() map[string]PetStats {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	return aggregateByPet(logger.sessions, time.Time{})
}

// TodayStatsByPet groups today's sessions by pet name.
func (logger *Logger) TodayStatsByPet() map[string]PetStats {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	return aggregateByPet(logger.sessions, logger.now())
}

// ExportCSV writes the full session log as CSV.
func (logger *Logger) ExportCSV(path string) error {
	sessions := logger.Sessions()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"start_time", "end_time", "duration_minutes", "session_type", "completed", "vpet_name"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, session := range sessions {
		row := []string{
			session.StartTime.Format(time.RFC3339),
			session.EndTime.Format(time.RFC3339),
			strconv.FormatFloat(session.DurationMinutes, 'f', 2, 64),
			session.SessionType,
			strconv.FormatBool(session.Completed),
			session.PetName,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	logger.log.Info().Int("sessions", len(sessions)).Str("path", path).Msg("sessions exported")
	return nil
}

// aggregateByPet filters to the day of `day` when non-zero.
func aggregateByPet(sessions []Record, day time.Time) map[string]PetStats {
	filter := ""
	if !day.IsZero() {
		filter = dateOf(day)
	}

	grouped := make(map[string]PetStats)
	for _, session := range sessions {
		if filter != "" && dateOf(session.StartTime) != filter {
			continue
		}
		name := session.PetName
		if name == "" {
			name = "Unknown"
		}
		stats := grouped[name]
		stats.TotalMinutes += session.DurationMinutes
		stats.SessionCount++
		if session.Completed {
			stats.CompletedSessions++
		} else {
			stats.InterruptedSessions++
		}
		grouped[name] = stats
	}

	for name, stats := range grouped {
		stats.TotalMinutes = round2(stats.TotalMinutes)
		stats.TotalHours = round2(stats.TotalMinutes / 60)
		if stats.SessionCount > 0 {
			rate := float64(stats.CompletedSessions) / float64(stats.SessionCount) * 100
			stats.SuccessRate = math.Round(rate*10) / 10
		}
		grouped[name] = stats
	}
	return grouped
}

func dateOf(value time.Time) string {
	return value.Format("2006-01-02")
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
