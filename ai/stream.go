// Package ai — AI gateway istemcisi ve SSE stream birleştiricisi.
//
// Asistan yanıtları Server-Sent Events (SSE) olarak chunk chunk gelir.
// Ağ katmanı chunk sınırlarını SSE satır sınırlarına hizalamaz: bir "data:"
// satırı iki chunk'a bölünebilir, bir chunk üç satır içerebilir.
// StreamAssembler bu ham byte akışını düzgün content delta'larına çevirir.
package ai

import (
	"encoding/json"
	"strings"
)

// streamChunk, tek bir SSE data satırının JSON payload'ı.
// Gateway OpenAI uyumlu chunk formatı konuşur: content delta'sı
// choices[0].delta.content altındadır.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// content, chunk'ın taşıdığı delta metnini döner (yoksa boş string).
func (c *streamChunk) content() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// StreamAssembler, SSE byte akışını content delta'larına çevirir.
//
// Kurallar:
//   - Chunk'lar \n ile satırlara bölünür; satır sonundaki \r atılır (CRLF toleransı)
//   - Boş satırlar (SSE event ayracı) ve ":" ile başlayan yorum satırları atlanır
//   - Sadece "data: " prefix'li satırlar işlenir
//   - "data: [DONE]" akışın sonudur — sonrası yok sayılır
//   - Chunk ortasında kesilen satır buffer'da bekletilir, sonraki chunk tamamlar
//   - JSON parse edilemeyen data satırı da kesik olabilir — buffer'a geri itilir
//     ve sonraki chunk ile birleştirilip yeniden denenir
//   - EOF'tan sonra Flush çağrılır: buffer'da newline beklemeden kalan son
//     satır da işlenir (sunucu kapatmadan önce \n göndermemiş olabilir)
type StreamAssembler struct {
	buf  string
	done bool
}

// Push, bir ağ chunk'ını işler ve tamamlanan content delta'larını döner.
func (a *StreamAssembler) Push(chunk []byte) []string {
	if a.done {
		return nil
	}
	a.buf += string(chunk)
	return a.drain(false)
}

// Flush, EOF sonrası buffer'da kalan son (newline'sız) satırı işler.
func (a *StreamAssembler) Flush() []string {
	if a.done {
		return nil
	}
	return a.drain(true)
}

// Done, [DONE] terminatörünün görülüp görülmediğini söyler.
func (a *StreamAssembler) Done() bool {
	return a.done
}

func (a *StreamAssembler) drain(final bool) []string {
	var deltas []string

	for a.buf != "" && !a.done {
		var line string

		idx := strings.IndexByte(a.buf, '\n')
		if idx >= 0 {
			line = a.buf[:idx]
			a.buf = a.buf[idx+1:]
		} else if final {
			line = a.buf
			a.buf = ""
		} else {
			// Satır henüz tamamlanmadı — sonraki chunk'ı bekle
			break
		}

		line = strings.TrimSuffix(line, "\r")

		// SSE event ayracı ve yorum satırları
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}

		if payload == "[DONE]" {
			a.done = true
			a.buf = ""
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			if !final {
				// Kesik JSON: sunucu satırı erken bölmüş olabilir.
				// Satırı geri it — sonraki chunk sonuna eklenip tekrar denenir.
				a.buf = line + a.buf
				break
			}
			// Flush'ta hâlâ parse edilemiyorsa düşür — akış bitti, veri bozuk
			continue
		}

		if delta := chunk.content(); delta != "" {
			deltas = append(deltas, delta)
		}
	}

	return deltas
}
