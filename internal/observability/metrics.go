package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reactivities",
		Name:      "activities_created_total",
		Help:      "Total number of activities created.",
	})
	lastActivityCreated = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "reactivities",
		Name:      "last_activity_created_timestamp_seconds",
		Help:      "Unix timestamp of the most recently created activity.",
	})
	commentsAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reactivities",
		Name:      "comments_added_total",
		Help:      "Total number of comments appended to activities.",
	})
	feedRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reactivities",
		Name:      "feed_requests_total",
		Help:      "Total number of activity feed pages served.",
	}, []string{"filter"})
	followToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reactivities",
		Name:      "follow_toggles_total",
		Help:      "Total number of follow toggles by resulting action.",
	}, []string{"action"})
	attendanceToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reactivities",
		Name:      "attendance_toggles_total",
		Help:      "Total number of attendance toggles by resulting action.",
	}, []string{"action"})
)

func init() {
	prometheus.MustRegister(
		activitiesCreated, lastActivityCreated, commentsAdded,
		feedRequests, followToggles, attendanceToggles,
	)
}

// RecordActivityCreated bumps the creation counter and watermark.
func RecordActivityCreated(ts time.Time) {
	activitiesCreated.Inc()
	if !ts.IsZero() {
		lastActivityCreated.Set(float64(ts.Unix()))
	}
}

func IncCommentsAdded() {
	commentsAdded.Inc()
}

func IncFeedRequests(filter string) {
	if filter == "" {
		filter = "none"
	}
	feedRequests.WithLabelValues(filter).Inc()
}

func IncFollowToggles(action string) {
	followToggles.WithLabelValues(action).Inc()
}

func IncAttendanceToggles(action string) {
	attendanceToggles.WithLabelValues(action).Inc()
}
