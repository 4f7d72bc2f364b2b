package rag

import (
	"strings"
	"sync"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "cl100k_base"

// Tokenizer converts text to token ids and back.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type Chunk struct {
	Text      string
	TokenSize int
	Index     int
}

type ChunkerConfig struct {
	MaxTokens     int
	OverlapTokens int
}

// DefaultChunkerConfig keeps indexed passages short enough for the hashing
// embedder to stay discriminative.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		MaxTokens:     400,
		OverlapTokens: 50,
	}
}

// Chunker splits text into sentence-aligned chunks of at most MaxTokens,
// carrying trailing sentences of the previous chunk as overlap.
type Chunker struct {
	cfg ChunkerConfig
	tok Tokenizer
}

func NewChunker(cfg ChunkerConfig, tok Tokenizer) *Chunker {
	return &Chunker{cfg: cfg, tok: tok}
}

func (c *Chunker) Split(text string) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		chunks  []Chunk
		buf     strings.Builder
		tokens  int
		emitted int
	)
	flush := func() {
		chunks = append(chunks, Chunk{Text: strings.TrimSpace(buf.String()), TokenSize: tokens, Index: emitted})
		emitted++
		buf.Reset()
		tokens = 0
	}

	sentences := splitSentences(text)
	for i, sentence := range sentences {
		size := c.count(sentence)

		if size > c.cfg.MaxTokens {
			if buf.Len() > 0 {
				flush()
			}
			for _, piece := range c.slice(sentence) {
				piece.Index = emitted
				chunks = append(chunks, piece)
				emitted++
			}
			continue
		}

		if tokens+size > c.cfg.MaxTokens && buf.Len() > 0 {
			flush()
			overlap := c.overlap(sentences, i)
			buf.WriteString(overlap)
			tokens = c.count(overlap)
		}

		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(sentence)
		tokens += size
	}
	if buf.Len() > 0 {
		flush()
	}
	return chunks
}

// slice cuts an oversized sentence on token boundaries.
func (c *Chunker) slice(sentence string) []Chunk {
	ids := c.tok.Encode(sentence)
	var out []Chunk
	for start := 0; start < len(ids); start += c.cfg.MaxTokens {
		end := min(start+c.cfg.MaxTokens, len(ids))
		text := strings.TrimSpace(c.tok.Decode(ids[start:end]))
		if text == "" {
			continue
		}
		out = append(out, Chunk{Text: text, TokenSize: end - start})
	}
	return out
}

func (c *Chunker) overlap(sentences []string, current int) string {
	var (
		kept   []string
		tokens int
	)
	for i := current - 1; i >= 0 && tokens < c.cfg.OverlapTokens; i-- {
		kept = append([]string{sentences[i]}, kept...)
		tokens += c.count(sentences[i])
	}
	return strings.Join(kept, " ")
}

func (c *Chunker) count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.tok.Encode(text))
}

var sentenceEnders = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true, '．': true, '…': true,
}

// splitSentences breaks text into paragraphs on blank lines and each
// paragraph into sentences on terminal punctuation followed by a space.
func splitSentences(text string) []string {
	var sentences []string
	for _, para := range splitParagraphs(text) {
		var cur strings.Builder
		runes := []rune(para)
		for i, r := range runes {
			cur.WriteRune(r)
			if !sentenceEnders[r] {
				continue
			}
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) || isCJK(runes[i+1]) {
				if s := strings.TrimSpace(cur.String()); s != "" {
					sentences = append(sentences, s)
				}
				cur.Reset()
			}
		}
		if s := strings.TrimSpace(cur.String()); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		// single newlines are soft wraps
		p = strings.TrimSpace(strings.ReplaceAll(p, "\n", " "))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

// BPE adapts a tiktoken encoding to Tokenizer.
type BPE struct {
	enc *tiktoken.Tiktoken
}

func (b BPE) Encode(text string) []int {
	return b.enc.Encode(text, nil, nil)
}

func (b BPE) Decode(tokens []int) string {
	return b.enc.Decode(tokens)
}

// Words is a whitespace tokenizer, used when the BPE ranks cannot be loaded.
type Words struct {
	mu    sync.Mutex
	vocab []string
	ids   map[string]int
}

func (w *Words) Encode(text string) []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ids == nil {
		w.ids = make(map[string]int)
	}
	fields := strings.Fields(text)
	ids := make([]int, len(fields))
	for i, f := range fields {
		id, ok := w.ids[f]
		if !ok {
			id = len(w.vocab)
			w.vocab = append(w.vocab, f)
			w.ids[f] = id
		}
		ids[i] = id
	}
	return ids
}

func (w *Words) Decode(tokens []int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	words := make([]string, 0, len(tokens))
	for _, id := range tokens {
		if id >= 0 && id < len(w.vocab) {
			words = append(words, w.vocab[id])
		}
	}
	return strings.Join(words, " ")
}

var (
	defaultTok     Tokenizer
	defaultTokOnce sync.Once
	defaultTokErr  error
)

// DefaultTokenizer returns the cl100k_base encoding. The first call may
// download the ranks file; if that fails the word tokenizer is returned
// along with the load error.
func DefaultTokenizer() (Tokenizer, error) {
	defaultTokOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			defaultTok, defaultTokErr = &Words{}, err
			return
		}
		defaultTok = BPE{enc: enc}
	})
	return defaultTok, defaultTokErr
}
