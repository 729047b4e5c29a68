package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal"
)

// ReadWordsCSV parses "display,transliteration" records. A header row whose
// first cell is "display" is skipped, as are short or blank records.
func ReadWordsCSV(r io.Reader) ([]internal.WordEntry, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	var words []internal.WordEntry
	line := 0
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse words csv: %w", err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "display") {
			continue
		}
		if len(record) < 2 {
			log.Warn().Int("line", line).Strs("record", record).Msg("skipping invalid word record")
			continue
		}

		display := strings.TrimSpace(record[0])
		transliteration := strings.TrimSpace(record[1])
		if display == "" || transliteration == "" {
			log.Warn().Int("line", line).Msg("skipping word record with empty field")
			continue
		}

		words = append(words, internal.WordEntry{
			Display:         display,
			Transliteration: transliteration,
			Accepted:        AcceptedAnswers(display, transliteration),
		})
	}

	if len(words) == 0 {
		return nil, errors.New("parse words csv: no words")
	}
	return words, nil
}
