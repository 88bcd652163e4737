package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
)

// UsernameFromLine returns the text between the first "(" and the first ")" after it.
// It returns models.UnknownUsername when there is no such token.
func UsernameFromLine(line string) string {
	open := strings.Index(line, "(")
	if open < 0 {
		return models.UnknownUsername
	}
	end := strings.Index(line[open+1:], ")")
	if end < 0 {
		return models.UnknownUsername
	}
	username := strings.TrimSpace(line[open+1 : open+1+end])
	if username == "" {
		return models.UnknownUsername
	}
	return username
}

// receiptFields maps receipt line prefixes to the field they fill.
var receiptFields = map[string]func(*models.Receipt, string){
	"Name:":           func(r *models.Receipt, v string) { r.Name = v },
	"Assignment:":     func(r *models.Receipt, v string) { r.Assignment = v },
	"Date Submitted:": func(r *models.Receipt, v string) { r.DateSubmitted = v },
}

// ParseReceipt reads a submission receipt.
// The username always comes from the first line; labelled lines fill the optional fields.
// Lines may be arbitrarily long.
func ParseReceipt(r io.Reader) (models.Receipt, error) {
	rec := models.Receipt{Username: models.UnknownUsername}
	br := bufio.NewReader(r)
	first := true
	for {
		raw, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return models.Receipt{}, err
		}
		if raw == "" && err == io.EOF {
			break
		}
		line := strings.TrimSpace(raw)
		if first {
			rec.Username = UsernameFromLine(line)
			first = false
		}
		for prefix, set := range receiptFields {
			if strings.HasPrefix(line, prefix) {
				value := strings.TrimSpace(strings.TrimPrefix(line, prefix))
				// the display name carries the "(username)" suffix
				if prefix == "Name:" {
					if i := strings.Index(value, "("); i > 0 {
						value = strings.TrimSpace(value[:i])
					}
				}
				set(&rec, value)
			}
		}
		if err == io.EOF {
			break
		}
	}
	return rec, nil
}

// ReadReceipt parses the receipt file at path.
func ReadReceipt(path string) (models.Receipt, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Receipt{}, err
	}
	defer f.Close()
	return ParseReceipt(f)
}
