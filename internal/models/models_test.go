package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnums(t *testing.T) {
	assert.True(t, PriorityUrgent.Valid())
	assert.False(t, Priority("asap").Valid())
	assert.True(t, CategorySocial.Valid())
	assert.False(t, Category("").Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.False(t, Status("done").Valid())
}

func TestDescriptionJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Description
	}{
		{"null", `null`, Description{}},
		{"bare string", `"write copy"`, TextDescription("write copy")},
		{"blank string", `"   "`, Description{}},
		{"tagged text", `{"type":"text","text":"hello"}`, TextDescription("hello")},
		{"checklist", `{"type":"checklist","items":[{"text":"a","checked":true},{"text":"b"}]}`,
			ChecklistDescription([]ChecklistItem{{Text: "a", Checked: true}, {Text: "b"}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Description
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.Equal(t, tt.want, d)
		})
	}

	var d Description
	assert.Error(t, json.Unmarshal([]byte(`{"type":"html","text":"<b>"}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"text":"untagged"}`), &d))
}

func TestDescriptionEncoding(t *testing.T) {
	b, err := json.Marshal(Description{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = json.Marshal(ChecklistDescription([]ChecklistItem{{Text: "a"}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"checklist","items":[{"text":"a","checked":false}]}`, string(b))

	d := ChecklistDescription([]ChecklistItem{{Text: "a", Checked: true}, {Text: "b"}})
	checked, total := d.Done()
	assert.Equal(t, 1, checked)
	assert.Equal(t, 2, total)

	body, err := d.Body()
	require.NoError(t, err)
	back, err := DescriptionFromStored(string(d.Kind), body)
	require.NoError(t, err)
	assert.Equal(t, d, back)

	_, err = DescriptionFromStored("rtf", "x")
	assert.Error(t, err)

	assert.Error(t, ChecklistDescription([]ChecklistItem{{Text: " "}}).Validate())
	assert.NoError(t, TextDescription("ok").Validate())
}

func TestParseDate(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*3600)

	d, err := ParseDate("2026-10-19", bangkok)
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2026, Month: time.October, Day: 19}, d)

	// late evening UTC is the next morning in UTC+7
	d, err = ParseDate("2026-10-19T20:00:00Z", bangkok)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-20", d.String())

	d, err = ParseDate("2026-10-19T20:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", d.String())

	_, err = ParseDate("19/10/2026", time.UTC)
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var task struct {
		Due *Date `json:"due"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2026-01-05"}`), &task))
	require.NotNil(t, task.Due)
	assert.True(t, task.Due.Before(Date{Year: 2026, Month: time.February, Day: 1}))

	b, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2026-01-05"}`, string(b))

	assert.Nil(t, DatePtrString(nil))
	assert.Equal(t, "2026-01-05", *DatePtrString(task.Due))
}

func TestDateJSONRejectsTimestamps(t *testing.T) {
	var d Date
	// 23:30 in UTC is already the next day in most of Asia
	err := json.Unmarshal([]byte(`"2026-01-05T23:30:00Z"`), &d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want YYYY-MM-DD")
	assert.Equal(t, Date{}, d)

	assert.Error(t, json.Unmarshal([]byte(`"05/01/2026"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20260105`), &d))

	require.NoError(t, json.Unmarshal([]byte(`" 2026-01-05 "`), &d))
	assert.Equal(t, Date{Year: 2026, Month: time.January, Day: 5}, d)
}
