package handlers

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Flash is a one-shot page-level message carried across a redirect.
type Flash struct {
	Level string // success | error | info
	Text  string
}

// Flashes are stored as "level|text" strings so the cookie store needs no
// gob registration.
func setFlash(c *gin.Context, level, text string) {
	sess := sessions.Default(c)
	sess.AddFlash(level + "|" + text)
	_ = sess.Save()
}

func takeFlashes(c *gin.Context) []Flash {
	sess := sessions.Default(c)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save() // persist flash removal

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		level, text, found := strings.Cut(s, "|")
		if !found {
			level, text = "info", s
		}
		flashes = append(flashes, Flash{Level: level, Text: text})
	}
	return flashes
}
