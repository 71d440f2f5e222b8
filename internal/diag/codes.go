package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестное состояние - на первое время
	UnknownCode Code = 0

	// Чтение входных файлов
	IOReadFile Code = 1001

	// Разбор трасс
	TraceNotClang  Code = 2001
	TraceMalformed Code = 2002
	TraceNoEvents  Code = 2003

	// Файл сессии
	SessionMissing Code = 3001
	SessionCorrupt Code = 3002

	// Прогон целиком
	RunEmptyTraceSet Code = 4001
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TRC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RUN%04d", ic)
	}
	return "E0000"
}

var codeDescription = map[Code]string{
	UnknownCode:      "Unknown condition",
	IOReadFile:       "Trace file could not be read",
	TraceNotClang:    "Not a clang time-trace",
	TraceMalformed:   "Malformed trace JSON",
	TraceNoEvents:    "Trace holds no usable events",
	SessionMissing:   "Session file not found",
	SessionCorrupt:   "Session file corrupt or wrong schema",
	RunEmptyTraceSet: "No usable traces in this run",
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
