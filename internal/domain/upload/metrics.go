package upload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadportal_upload_rejections_total",
		Help: "Upload requests rejected by the admission policy.",
	}, []string{"reason"})

	credentialsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadportal_upload_credentials_issued_total",
		Help: "Write credentials handed out, by subscription tier.",
	}, []string{"tier"})

	uploadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadportal_upload_failures_total",
		Help: "Upload requests that failed after admission.",
	}, []string{"stage"})

	bytesAuthorized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadportal_upload_bytes_authorized_total",
		Help: "Sum of declared sizes of authorized uploads.",
	})

	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadportal_download_links_total",
		Help: "Download link requests by outcome.",
	}, []string{"outcome"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadportal_file_cache_lookups_total",
		Help: "FileRecord cache lookups by result.",
	}, []string{"result"})
)
