package command

import (
	"bytes"

	"github.com/heartmarshall/painstats-backend/internal/domain"
)

// rowDTO is the wire form of a statistics row. Keys follow domain.StatColumns.
type rowDTO struct {
	Number          string  `json:"Номер"`
	CreatedAt       string  `json:"Дата создания"`
	UpdatedAt       string  `json:"Дата обновления"`
	HeadacheToday   bool    `json:"Головная боль сегодня"`
	MedicamentToday bool    `json:"Принимали ли медикаменты"`
	PainIntensity   *int    `json:"Интенсивность боли"`
	PainArea        *string `json:"Область боли"`
	AreaDetail      *string `json:"Детали области"`
	PainType        *string `json:"Тип боли"`
	Comments        *string `json:"Комментарии"`
}

func newRowDTO(r domain.StatRow) rowDTO {
	return rowDTO{
		Number:          r.Number,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		HeadacheToday:   r.HeadacheToday,
		MedicamentToday: r.MedicamentToday,
		PainIntensity:   r.PainIntensity,
		PainArea:        r.PainArea,
		AreaDetail:      r.AreaDetail,
		PainType:        r.PainType,
		Comments:        r.Comments,
	}
}

type monthDTO struct {
	label string
	rows  []rowDTO
}

// statisticsDTO encodes as {"phone_number": ..., "statistics": {label: rows}}
// with the statistics keys in bucket order. A Go map would sort them.
type statisticsDTO struct {
	phone  string
	months []monthDTO
}

func newStatisticsDTO(s *domain.Statistics) statisticsDTO {
	if s == nil {
		return statisticsDTO{}
	}
	dto := statisticsDTO{phone: s.PhoneNumber, months: make([]monthDTO, 0, len(s.Months))}
	for _, m := range s.Months {
		rows := make([]rowDTO, 0, len(m.Rows))
		for _, r := range m.Rows {
			rows = append(rows, newRowDTO(r))
		}
		dto.months = append(dto.months, monthDTO{label: m.Label, rows: rows})
	}
	return dto
}

func (s statisticsDTO) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	phone, err := marshal(s.phone)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"phone_number":`)
	buf.Write(phone)
	buf.WriteString(`,"statistics":{`)

	for i, m := range s.months {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := marshal(m.label)
		if err != nil {
			return nil, err
		}
		rows, err := marshal(m.rows)
		if err != nil {
			return nil, err
		}
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(rows)
	}

	buf.WriteString("}}")
	return buf.Bytes(), nil
}
