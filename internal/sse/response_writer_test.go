package sse

import "testing"

func TestFormatSseEvent(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected string
	}{
		{
			name:     "single line",
			data:     `{"buttonLabel":"Play"}`,
			expected: "event:display.change\ndata:{\"buttonLabel\":\"Play\"}\n\n",
		},
		{
			name:     "multiple lines",
			data:     "first\nsecond",
			expected: "event:display.change\ndata:first\ndata:second\n\n",
		},
		{
			name:     "empty",
			data:     "",
			expected: "event:display.change\ndata:\n\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// when
			result := formatSseEvent(displayChannelVariant, displayChangeEvent, []byte(test.data))

			// then
			if string(result) != test.expected {
				t.Errorf("Expected %q, got %q", test.expected, string(result))
			}
		})
	}
}
