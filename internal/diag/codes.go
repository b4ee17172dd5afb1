package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Разметка шаблона
	LexInfo               Code = 1000
	LexUnterminatedText   Code = 1001
	LexUnterminatedExpr   Code = 1002
	LexUnterminatedFunc   Code = 1003
	LexBadEscape          Code = 1004
	LexUnterminatedEscape Code = 1005
	LexNestedText         Code = 1006
	LexStrayTextClose     Code = 1007
	LexEmptyExpr          Code = 1008
	LexEmptyFilter        Code = 1009
	LexBadFilter          Code = 1010
	LexBadFormat          Code = 1011
	LexNestedFunc         Code = 1012
	LexStrayEnd           Code = 1013
	LexBadSignature       Code = 1014
	LexUnbalancedBracket  Code = 1015

	// Генерация Go-кода
	GenInfo            Code = 2000
	GenMalformedStream Code = 2001

	// Конфигурация
	CfgInfo             Code = 3000
	CfgStrategyConflict Code = 3001
	CfgBadName          Code = 3002
	CfgNoOutputPath     Code = 3003
	CfgManifest         Code = 3004
	CfgUnknownStrategy  Code = 3005

	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		LexInfo:               "Template markup information",
		LexUnterminatedText:   "Unterminated text block",
		LexUnterminatedExpr:   "Unterminated expression",
		LexUnterminatedFunc:   "Unterminated template function",
		LexBadEscape:          "Unknown escape sequence",
		LexUnterminatedEscape: "Escape character at end of input",
		LexNestedText:         "Text block opened inside a text block",
		LexStrayTextClose:     "End of text block outside a text block",
		LexEmptyExpr:          "Empty expression",
		LexEmptyFilter:        "Empty filter name",
		LexBadFilter:          "Invalid filter name",
		LexBadFormat:          "Invalid format specification",
		LexNestedFunc:         "Template function opened inside a template function",
		LexStrayEnd:           "End of template function without a function",
		LexBadSignature:       "Invalid template function signature",
		LexUnbalancedBracket:  "Mismatched bracket in expression",
		GenInfo:               "Generation information",
		GenMalformedStream:    "Malformed fragment stream",
		CfgInfo:               "Configuration information",
		CfgStrategyConflict:   "Conflicting emission strategies",
		CfgBadName:            "Invalid strategy target name",
		CfgNoOutputPath:       "Cannot derive output path",
		CfgManifest:           "Invalid project manifest",
		CfgUnknownStrategy:    "Unknown emission strategy",
		IOLoadFileError:       "I/O load file error",
		IOWriteFileError:      "I/O write file error",
		ObsInfo:               "Observability information",
		ObsTimings:            "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

// IsMarkup reports whether c is a template markup (LEX) code.
func (c Code) IsMarkup() bool {
	return c >= LexInfo && c < GenInfo
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
