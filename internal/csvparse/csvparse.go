// Package csvparse validates and parses the CSV files the raffle works from:
// the connpass attendee export, the prize catalog sheet and the persisted
// winner list. All schema checks happen here so the services only ever see
// well-formed batches.
package csvparse

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/tenkey-events/raffle-backend/internal/models"
)

// Column headers as they appear in the connpass export and the catalog sheet.
const (
	ColUsername         = "ユーザー名"
	ColDisplayName      = "表示名"
	ColAttendanceStatus = "参加ステータス"
	ColRegistrationID   = "受付番号"

	ColPrizeID          = "管理No"
	ColPrizeProvider    = "提供元"
	ColPrizeDisplayName = "景品名"

	ColWinnerPrizeID       = "景品ID"
	ColWinnerParticipantID = "当選者受付番号"
)

// Attendance status sentinels. connpass only ever emits these two values;
// anything else means the export is broken and the whole batch is rejected.
const (
	StatusAttending = "参加"
	StatusCancelled = "参加キャンセル"
)

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func readAll(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("csv is empty")
	}
	return rows[0], rows[1:], nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseParticipants parses a connpass attendee export. It rejects the batch
// when a required column is missing, when a registration ID appears twice, or
// when an attendance status is neither 参加 nor 参加キャンセル.
func ParseParticipants(r io.Reader) ([]models.Participant, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	for _, col := range []string{ColUsername, ColDisplayName, ColAttendanceStatus, ColRegistrationID} {
		if columnIndex(header, col) == -1 {
			return nil, fmt.Errorf("participants csv is missing the %q column", col)
		}
	}
	usernameIdx := columnIndex(header, ColUsername)
	displayNameIdx := columnIndex(header, ColDisplayName)
	statusIdx := columnIndex(header, ColAttendanceStatus)
	idIdx := columnIndex(header, ColRegistrationID)

	participants := make([]models.Participant, 0, len(rows))
	seen := make(map[string]bool)
	duplicates := make(map[string]bool)
	badStatus := make(map[string]bool)

	for _, row := range rows {
		if len(row) <= idIdx || len(row) <= usernameIdx || len(row) <= displayNameIdx || len(row) <= statusIdx {
			return nil, fmt.Errorf("participants csv has a short row: %v", row)
		}
		id := row[idIdx]
		status := row[statusIdx]
		if status != StatusAttending && status != StatusCancelled {
			badStatus[id] = true
		}
		if seen[id] {
			duplicates[id] = true
		}
		seen[id] = true
		participants = append(participants, models.Participant{
			RegistrationID:    id,
			Username:          row[usernameIdx],
			DisplayName:       row[displayNameIdx],
			ConnpassAttending: status == StatusAttending,
		})
	}

	if len(badStatus) > 0 {
		return nil, fmt.Errorf("participants csv has rows whose %q is neither %q nor %q: %v",
			ColAttendanceStatus, StatusAttending, StatusCancelled, sortedKeys(badStatus))
	}
	if len(duplicates) > 0 {
		return nil, fmt.Errorf("participants csv has duplicate registration ids: %v", sortedKeys(duplicates))
	}
	return participants, nil
}

// ParsePrizes parses the prize catalog sheet, rejecting missing columns and
// duplicate prize IDs.
func ParsePrizes(r io.Reader) ([]models.Prize, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	for _, col := range []string{ColPrizeID, ColPrizeProvider, ColPrizeDisplayName} {
		if columnIndex(header, col) == -1 {
			return nil, fmt.Errorf("prizes csv is missing the %q column", col)
		}
	}
	idIdx := columnIndex(header, ColPrizeID)
	providerIdx := columnIndex(header, ColPrizeProvider)
	displayNameIdx := columnIndex(header, ColPrizeDisplayName)

	prizes := make([]models.Prize, 0, len(rows))
	seen := make(map[string]bool)
	duplicates := make(map[string]bool)

	for _, row := range rows {
		if len(row) <= idIdx || len(row) <= providerIdx || len(row) <= displayNameIdx {
			return nil, fmt.Errorf("prizes csv has a short row: %v", row)
		}
		id := row[idIdx]
		if seen[id] {
			duplicates[id] = true
		}
		seen[id] = true
		prizes = append(prizes, models.Prize{
			ID:          id,
			Provider:    row[providerIdx],
			DisplayName: row[displayNameIdx],
		})
	}

	if len(duplicates) > 0 {
		return nil, fmt.Errorf("prizes csv has duplicate prize ids: %v", sortedKeys(duplicates))
	}
	return prizes, nil
}

// ParseWinnerMappings parses a persisted winner list and checks it against the
// roster and catalog it was drawn from: duplicate prize IDs, unknown prize IDs
// and unknown participant IDs all reject the batch.
func ParseWinnerMappings(r io.Reader, roster []models.Participant, catalog []models.Prize) ([]models.WinnerMapping, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	for _, col := range []string{ColWinnerPrizeID, ColWinnerParticipantID} {
		if columnIndex(header, col) == -1 {
			return nil, fmt.Errorf("winners csv is missing the %q column", col)
		}
	}
	prizeIdx := columnIndex(header, ColWinnerPrizeID)
	participantIdx := columnIndex(header, ColWinnerParticipantID)

	knownPrizes := make(map[string]bool, len(catalog))
	for _, prize := range catalog {
		knownPrizes[prize.ID] = true
	}
	knownParticipants := make(map[string]bool, len(roster))
	for _, participant := range roster {
		knownParticipants[participant.RegistrationID] = true
	}

	mappings := make([]models.WinnerMapping, 0, len(rows))
	seen := make(map[string]bool)
	duplicates := make(map[string]bool)
	unknownPrizes := make(map[string]bool)
	unknownParticipants := make(map[string]bool)

	for _, row := range rows {
		if len(row) <= prizeIdx || len(row) <= participantIdx {
			return nil, fmt.Errorf("winners csv has a short row: %v", row)
		}
		prizeID := row[prizeIdx]
		participantID := row[participantIdx]
		if seen[prizeID] {
			duplicates[prizeID] = true
		}
		seen[prizeID] = true
		if !knownPrizes[prizeID] {
			unknownPrizes[prizeID] = true
		}
		if !knownParticipants[participantID] {
			unknownParticipants[participantID] = true
		}
		mappings = append(mappings, models.WinnerMapping{
			PrizeID:       prizeID,
			ParticipantID: participantID,
		})
	}

	if len(duplicates) > 0 {
		return nil, fmt.Errorf("winners csv has duplicate prize ids: %v", sortedKeys(duplicates))
	}
	if len(unknownPrizes) > 0 {
		return nil, fmt.Errorf("winners csv references unknown prize ids: %v", sortedKeys(unknownPrizes))
	}
	if len(unknownParticipants) > 0 {
		return nil, fmt.Errorf("winners csv references unknown registration ids: %v", sortedKeys(unknownParticipants))
	}
	return mappings, nil
}
