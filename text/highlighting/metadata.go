// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package highlighting

import "strings"

// Metadata is the packed style of a token:
//
//	bits  0-7   language id
//	bits  8-9   token type
//	bits 11-14  font style
//	bits 15-23  foreground color id
//	bits 24-31  background color id
type Metadata uint32

const (
	languageIDMask = 0x000000ff
	tokenTypeMask  = 0x00000300
	fontStyleMask  = 0x00007800
	foregroundMask = 0x00ff8000
	backgroundMask = 0xff000000

	languageIDOffset = 0
	tokenTypeOffset  = 8
	fontStyleOffset  = 11
	foregroundOffset = 15
	backgroundOffset = 24
)

// TokenType is the coarse kind of a token, which editors
// use for bracket matching and auto closing.
type TokenType uint8

const (
	TokenOther TokenType = iota
	TokenComment
	TokenString
	TokenRegEx
)

// tokenTypeOf returns the token type of the innermost
// scope that has one.
func tokenTypeOf(scopes []string) TokenType {
	for i := len(scopes) - 1; i >= 0; i-- {
		s := scopes[i]
		switch {
		case s == "comment" || strings.HasPrefix(s, "comment."):
			return TokenComment
		case s == "string.regexp" || strings.HasPrefix(s, "string.regexp."):
			return TokenRegEx
		case s == "string" || strings.HasPrefix(s, "string."):
			return TokenString
		}
	}
	return TokenOther
}

// FontStyle is a set of font style flags.
type FontStyle uint8

const (
	FontItalic FontStyle = 1 << iota
	FontBold
	FontUnderline
	FontStrikethrough
)

// ParseFontStyle parses a space separated theme font style.
// Unknown words are ignored.
func ParseFontStyle(s string) FontStyle {
	var fs FontStyle
	for _, w := range strings.Fields(s) {
		switch w {
		case "italic":
			fs |= FontItalic
		case "bold":
			fs |= FontBold
		case "underline":
			fs |= FontUnderline
		case "strikethrough":
			fs |= FontStrikethrough
		}
	}
	return fs
}

func (fs FontStyle) String() string {
	var ws []string
	if fs&FontItalic != 0 {
		ws = append(ws, "italic")
	}
	if fs&FontBold != 0 {
		ws = append(ws, "bold")
	}
	if fs&FontUnderline != 0 {
		ws = append(ws, "underline")
	}
	if fs&FontStrikethrough != 0 {
		ws = append(ws, "strikethrough")
	}
	return strings.Join(ws, " ")
}

// NewMetadata packs the given values. Values that do not
// fit in their bits are masked off.
func NewMetadata(languageID int, tt TokenType, fs FontStyle, fg, bg int) Metadata {
	md := uint32(languageID)<<languageIDOffset&languageIDMask |
		uint32(tt)<<tokenTypeOffset&tokenTypeMask |
		uint32(fs)<<fontStyleOffset&fontStyleMask |
		uint32(fg)<<foregroundOffset&foregroundMask |
		uint32(bg)<<backgroundOffset&backgroundMask
	return Metadata(md)
}

func (md Metadata) LanguageID() int {
	return int(md & languageIDMask >> languageIDOffset)
}

func (md Metadata) TokenType() TokenType {
	return TokenType(md & tokenTypeMask >> tokenTypeOffset)
}

func (md Metadata) FontStyle() FontStyle {
	return FontStyle(md & fontStyleMask >> fontStyleOffset)
}

// Foreground returns the foreground color id, an index into the [ColorMap].
func (md Metadata) Foreground() int {
	return int(md & foregroundMask >> foregroundOffset)
}

// Background returns the background color id, an index into the [ColorMap].
func (md Metadata) Background() int {
	return int(md & backgroundMask >> backgroundOffset)
}
