// Package enhancers contains the built-in metadata enhancers: content
// analysis, MDX inspection and content fingerprinting.
package enhancers

import (
	"os"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
)

// documentContent returns the raw document text, preferring the side-channel
// payload over reading InputPath.
func documentContent(pctx *docmodel.ProcessingContext) (string, error) {
	if pctx == nil {
		return "", errors.NewError(errors.CategoryValidation, "processing context is required").Build()
	}
	if content, ok := pctx.RawContent(); ok {
		return content, nil
	}
	// #nosec G304 -- the input path comes from the batch file list.
	data, err := os.ReadFile(pctx.InputPath())
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", pctx.InputPath()).
			Build()
	}
	return string(data), nil
}
