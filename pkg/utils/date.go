package utils

import (
	"fmt"
	"time"
)

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseDate interpreta datas no formato yyyy-mm-dd. String vazia devolve nil.
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

// ParseDateTime aceita os formatos enviados pela plataforma de pedidos e pelo painel.
func ParseDateTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	for _, layout := range dateTimeLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return &date, nil
		}
	}

	return nil, fmt.Errorf("formato de data não suportado: %s", value)
}
