package mgba

/*
#include <stdlib.h>

void mgbamcp_set_logger(void* handle);
*/
import "C"
import (
	"strings"
	"unsafe"

	"github.com/giongto35/mgba-mcp/pkg/logger"
	pointer "github.com/mattn/go-pointer"
)

// mGBA log levels, see mgba/core/log.h.
const (
	logFatal     = 0x01
	logError     = 0x02
	logWarn      = 0x04
	logInfo      = 0x08
	logDebug     = 0x10
	logStub      = 0x20
	logGameError = 0x40
)

// SetLogger routes the core's default logger into l. The Go logger
// travels through the C callback as a go-pointer handle, the handle
// stays alive for the process lifetime.
func SetLogger(l *logger.Logger) {
	C.mgbamcp_set_logger(pointer.Save(l))
}

//export mgbamcpGoLog
func mgbamcpGoLog(handle unsafe.Pointer, category C.int, level C.int, msg *C.char) {
	l, ok := pointer.Restore(handle).(*logger.Logger)
	if !ok || l == nil {
		return
	}
	m := strings.TrimSpace(C.GoString(msg))
	switch int(level) {
	case logFatal, logError, logGameError:
		l.Error().Msg(m)
	case logWarn:
		l.Warn().Msg(m)
	default:
		// the core is chatty on info, keep it at debug
		l.Debug().Msg(m)
	}
}
