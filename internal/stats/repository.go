// Package stats aggregates registration counts for the public widget and
// the admin dashboard. All aggregations count active registrations only.
package stats

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BranchCount is one row of the per-branch breakdown.
type BranchCount struct {
	Branch string `json:"branch"`
	Count  int    `json:"count"`
}

// YearCount is one row of the per-year breakdown.
type YearCount struct {
	YearOfStudy string `json:"yearOfStudy"`
	Count       int    `json:"count"`
}

// DailyCount is one day of the recent-registrations series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary is the basic counters block.
type Summary struct {
	TotalRegistrations int `json:"totalRegistrations"`
	WorkshopYes        int `json:"workshopYes"`
	WorkshopNo         int `json:"workshopNo"`
	EmailsSent         int `json:"emailsSent"`
	TodayRegistrations int `json:"todayRegistrations"`
}

// Repository runs the aggregation queries.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a stats repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// TotalActive returns the number of active registrations. It also backs the
// occupancy figures on the admin settings view.
func (r *Repository) TotalActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE status = 'active'`).Scan(&n)
	return n, err
}

// Summarize returns the basic counters in a single round trip.
func (r *Repository) Summarize(ctx context.Context) (*Summary, error) {
	var s Summary
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE workshop_attendance = 'Yes'),
			COUNT(*) FILTER (WHERE workshop_attendance = 'No'),
			COUNT(*) FILTER (WHERE email_sent),
			COUNT(*) FILTER (WHERE registration_date >= date_trunc('day', NOW()))
		FROM registrations
		WHERE status = 'active'`).Scan(
		&s.TotalRegistrations, &s.WorkshopYes, &s.WorkshopNo,
		&s.EmailsSent, &s.TodayRegistrations)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ByBranch returns active counts grouped by branch, most popular first.
func (r *Repository) ByBranch(ctx context.Context) ([]BranchCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT branch, COUNT(*)
		FROM registrations
		WHERE status = 'active'
		GROUP BY branch
		ORDER BY COUNT(*) DESC, branch`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BranchCount{}
	for rows.Next() {
		var bc BranchCount
		if err := rows.Scan(&bc.Branch, &bc.Count); err != nil {
			return nil, err
		}
		out = append(out, bc)
	}
	return out, rows.Err()
}

// ByYear returns active counts grouped by year of study in ascending order.
func (r *Repository) ByYear(ctx context.Context) ([]YearCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT year_of_study, COUNT(*)
		FROM registrations
		WHERE status = 'active'
		GROUP BY year_of_study
		ORDER BY year_of_study`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []YearCount{}
	for rows.Next() {
		var yc YearCount
		if err := rows.Scan(&yc.YearOfStudy, &yc.Count); err != nil {
			return nil, err
		}
		out = append(out, yc)
	}
	return out, rows.Err()
}

// RecentDaily returns per-day active registration counts for the last n days,
// newest first. Days without registrations are omitted.
func (r *Repository) RecentDaily(ctx context.Context, days int) ([]DailyCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(registration_date, 'YYYY-MM-DD'), COUNT(*)
		FROM registrations
		WHERE status = 'active'
		  AND registration_date >= NOW() - make_interval(days => $1)
		GROUP BY 1
		ORDER BY 1 DESC`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DailyCount{}
	for rows.Next() {
		var dc DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}
