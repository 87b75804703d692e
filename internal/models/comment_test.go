package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseReportStatus(t *testing.T) {
	for _, raw := range []string{"pending", "dismissed", "resolved"} {
		got, err := ParseReportStatus(raw, ReportPending)
		require.NoError(t, err, raw)
		require.Equal(t, ReportStatus(raw), got)
	}

	got, err := ParseReportStatus("", ReportDismissed)
	require.NoError(t, err)
	require.Equal(t, ReportDismissed, got, "empty filter falls back to the default")

	_, err = ParseReportStatus("closed", ReportPending)
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, CodeInvalidStatus, appErr.Code)
}
