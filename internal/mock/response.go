package mock

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

// filePrefix marks a response body that is loaded from the filesystem at
// request time instead of being carried inline.
const filePrefix = "@file://"

// ResolveBody returns the bytes to serve for the response. A body of the
// form "@file://name" reads name relative to the server's working directory
// on every request, so the file can change between requests. A missing file
// degrades to an empty body with an error log, matching how a broken
// reference should not take the whole mock down.
func (r ResponseSpec) ResolveBody(log *zap.Logger) []byte {
	if !strings.HasPrefix(r.Body, filePrefix) {
		return []byte(r.Body)
	}

	name := strings.TrimPrefix(r.Body, filePrefix)
	content, err := os.ReadFile(name)
	if err != nil {
		log.Error("response body file not found", zap.String("file", name), zap.Error(err))
		return nil
	}
	return content
}
