package transfer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snakada/flipcard/internal/flashcard"
)

func TestImportCSV(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCards []CardContent
		wantError error
	}{
		{
			name: "Header with title columns",
			input: "front_title,front_content,back_title,back_content\n" +
				"Greeting,hola,Greeting,hello\n" +
				",adios,,goodbye\n",
			wantCards: []CardContent{
				{
					Front: flashcard.CardFace{Title: "Greeting", Content: "hola"},
					Back:  flashcard.CardFace{Title: "Greeting", Content: "hello"},
				},
				{
					Front: flashcard.CardFace{Content: "adios"},
					Back:  flashcard.CardFace{Content: "goodbye"},
				},
			},
		},
		{
			name:  "Header naming only front and back",
			input: "Front,Back\nhola,hello\n",
			wantCards: []CardContent{
				{
					Front: flashcard.CardFace{Content: "hola"},
					Back:  flashcard.CardFace{Content: "hello"},
				},
			},
		},
		{
			name:  "Header spelling variants map to the same columns",
			input: "Front Heading,front,BACK-HEADING,back\nhi,hola,bye,adios\n",
			wantCards: []CardContent{
				{
					Front: flashcard.CardFace{Title: "hi", Content: "hola"},
					Back:  flashcard.CardFace{Title: "bye", Content: "adios"},
				},
			},
		},
		{
			name:  "No header with two columns is positional",
			input: "hola,hello\nadios,goodbye\n",
			wantCards: []CardContent{
				{
					Front: flashcard.CardFace{Content: "hola"},
					Back:  flashcard.CardFace{Content: "hello"},
				},
				{
					Front: flashcard.CardFace{Content: "adios"},
					Back:  flashcard.CardFace{Content: "goodbye"},
				},
			},
		},
		{
			name:  "No header with four columns includes titles",
			input: "Greeting,hola,Greeting,hello\n",
			wantCards: []CardContent{
				{
					Front: flashcard.CardFace{Title: "Greeting", Content: "hola"},
					Back:  flashcard.CardFace{Title: "Greeting", Content: "hello"},
				},
			},
		},
		{
			name: "Incomplete rows are skipped",
			input: "front,back\n" +
				"hola,hello\n" +
				"solo,\n" +
				",\n" +
				",alone\n",
			wantCards: []CardContent{
				{
					Front: flashcard.CardFace{Content: "hola"},
					Back:  flashcard.CardFace{Content: "hello"},
				},
			},
		},
		{
			name: "Quoted cells keep separators and quotes",
			input: "front,back\n" +
				`"hola, amigo","he said ""hi"""` + "\n",
			wantCards: []CardContent{
				{
					Front: flashcard.CardFace{Content: "hola, amigo"},
					Back:  flashcard.CardFace{Content: `he said "hi"`},
				},
			},
		},
		{
			name:      "Empty file",
			input:     "",
			wantError: ErrEmptyFile,
		},
		{
			name:      "Blank lines only",
			input:     "\n\n",
			wantError: ErrEmptyFile,
		},
		{
			name:      "Header missing a content column",
			input:     "front_title,front_content\nGreeting,hola\n",
			wantError: ErrMissingContentColumns,
		},
		{
			name:      "Single column without header",
			input:     "hola\nadios\n",
			wantError: ErrMissingContentColumns,
		},
		{
			name:      "Only incomplete rows",
			input:     "front,back\nsolo,\n",
			wantError: ErrNoCards,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := ImportCSV(strings.NewReader(tc.input))
			if tc.wantError != nil {
				assert.ErrorIs(t, err, tc.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCards, cards)
		})
	}
}

func TestExportCSV(t *testing.T) {
	deck := flashcard.Deck{
		Title: "Spanish",
		Cards: []flashcard.Card{
			{
				Front: flashcard.CardFace{Title: "Greeting", Content: "hola, amigo"},
				Back:  flashcard.CardFace{Content: "hello"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, deck))

	want := "front_title,front_content,back_title,back_content\r\n" +
		"Greeting,\"hola, amigo\",,hello\r\n"
	assert.Equal(t, want, buf.String())
}

func TestExportCSV_EmptyDeck(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, ExportCSV(&buf, flashcard.Deck{Title: "Spanish"}), ErrNoCards)
}

func TestExportImport_RoundTrip(t *testing.T) {
	deck := flashcard.Deck{
		Title: "Spanish",
		Cards: []flashcard.Card{
			{
				Front: flashcard.CardFace{Title: "Greeting", Content: "hola"},
				Back:  flashcard.CardFace{Content: "hello"},
			},
			{
				Front: flashcard.CardFace{Content: "adios"},
				Back:  flashcard.CardFace{Content: "goodbye"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, deck))

	cards, err := ImportCSV(&buf)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, deck.Cards[0].Front, cards[0].Front)
	assert.Equal(t, deck.Cards[1].Back, cards[1].Back)
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "Spanish.csv", ExportFileName("Spanish", "csv"))
	assert.Equal(t, "a_b_c.yaml", ExportFileName("a/b\\c", "yaml"))
	assert.Equal(t, "deck.csv", ExportFileName("   ", "csv"))
}
