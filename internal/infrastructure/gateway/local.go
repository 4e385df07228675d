// internal/infrastructure/gateway/local.go
package gateway

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/your-org/course-registration/internal/domain/catalog"
	"github.com/your-org/course-registration/internal/domain/order"
	"github.com/your-org/course-registration/internal/domain/payment"
)

// LocalGateway serves a built-in catalog and accepts every submission. It
// stands in for the backend when no gateway URL is configured.
type LocalGateway struct {
	courses   []catalog.CourseOffering
	assembler *order.Assembler
	logger    *logrus.Logger
}

// NewLocalGateway creates a local gateway over the default fixture catalog
func NewLocalGateway(logger *logrus.Logger) *LocalGateway {
	return &LocalGateway{
		courses:   FixtureCourses(),
		assembler: order.NewAssembler(),
		logger:    logger,
	}
}

// GetCourses returns a copy of the fixture catalog
func (g *LocalGateway) GetCourses(context.Context) ([]catalog.CourseOffering, error) {
	out := make([]catalog.CourseOffering, len(g.courses))
	for i, c := range g.courses {
		c.Sessions = append([]catalog.SessionOffering(nil), c.Sessions...)
		out[i] = c
	}
	return out, nil
}

// CheckQuota returns the fixture's remaining seats, or 0 for an unknown session
func (g *LocalGateway) CheckQuota(_ context.Context, sessionID string) (int, error) {
	for i := range g.courses {
		if s, ok := g.courses[i].Session(sessionID); ok {
			return s.Remaining, nil
		}
	}
	return 0, nil
}

// SubmitOrder accepts the order under a newly generated ID. Seats are not deducted.
func (g *LocalGateway) SubmitOrder(_ context.Context, sub *order.Submission) (*order.SubmitResult, error) {
	id, err := g.assembler.GenerateOrderID()
	if err != nil {
		return nil, err
	}
	g.logger.WithFields(logrus.Fields{
		"client_order_id": sub.OrderID,
		"order_id":        id,
	}).Info("Local gateway accepted order")
	return &order.SubmitResult{OrderID: id}, nil
}

// SubmitPayment accepts every report
func (g *LocalGateway) SubmitPayment(_ context.Context, report *payment.Report) error {
	g.logger.WithField("order_id", report.OrderID).Info("Local gateway accepted payment report")
	return nil
}

// FixtureCourses is the development catalog of two classroom locations
func FixtureCourses() []catalog.CourseOffering {
	return []catalog.CourseOffering{
		fixture("DT-001", "Downtown", "Occupational Safety and Health Officer", 115, 18000,
			sess("DT-001-2026-03A", "2026/03/03 - 03/21", 30, 12),
			sess("DT-001-2026-04A", "2026/04/07 - 04/25", 30, 25),
			sess("DT-001-2026-05A", "2026/05/05 - 05/23", 30, 30)),
		fixture("DT-002", "Downtown", "Occupational Safety Manager (Credit Class)", 43, 8500,
			sess("DT-002-2026-03A", "2026/03/10 - 03/14", 25, 8),
			sess("DT-002-2026-04A", "2026/04/14 - 04/18", 25, 20)),
		fixture("DT-003", "Downtown", "Class A Supervisor (Construction)", 42, 8000,
			sess("DT-003-2026-02A", "2026/02/10 - 02/14", 40, 5),
			sess("DT-003-2026-03A", "2026/03/17 - 03/21", 40, 35)),
		fixture("DT-004", "Downtown", "Class B Supervisor", 35, 6500,
			sess("DT-004-2026-02A", "2026/02/17 - 02/21", 40, 15),
			sess("DT-004-2026-03A", "2026/03/24 - 03/28", 40, 40)),
		fixture("DT-005", "Downtown", "Forklift Operator", 18, 4500,
			sess("DT-005-2026-02A", "2026/02/05 - 02/07", 30, 3),
			sess("DT-005-2026-02B", "2026/02/19 - 02/21", 30, 18),
			sess("DT-005-2026-03A", "2026/03/05 - 03/07", 30, 30)),
		fixture("DT-006", "Downtown", "First Aid Personnel", 16, 3200,
			sess("DT-006-2026-02A", "2026/02/12 - 02/13", 35, 10),
			sess("DT-006-2026-03A", "2026/03/12 - 03/13", 35, 28)),
		fixture("DT-007", "Downtown", "Organic Solvent Work Supervisor", 18, 4000,
			sess("DT-007-2026-02A", "2026/02/24 - 02/26", 35, 20),
			sess("DT-007-2026-03A", "2026/03/31 - 04/02", 35, 35)),
		fixture("DT-008", "Downtown", "Oxygen Deficiency Work Supervisor", 18, 4000,
			sess("DT-008-2026-03A", "2026/03/10 - 03/12", 30, 22)),
		fixture("LJ-001", "Longjing", "Occupational Safety and Health Officer", 115, 18000,
			sess("LJ-001-2026-03A", "2026/03/10 - 03/28", 25, 18),
			sess("LJ-001-2026-04A", "2026/04/14 - 05/02", 25, 25)),
		fixture("LJ-002", "Longjing", "Occupational Safety Manager (Credit Class)", 43, 8500,
			sess("LJ-002-2026-03A", "2026/03/17 - 03/21", 20, 12)),
		fixture("LJ-003", "Longjing", "Class A Supervisor (Construction)", 42, 8000,
			sess("LJ-003-2026-02A", "2026/02/17 - 02/21", 35, 8),
			sess("LJ-003-2026-03A", "2026/03/24 - 03/28", 35, 30)),
		fixture("LJ-004", "Longjing", "Class C Supervisor", 21, 4500,
			sess("LJ-004-2026-02A", "2026/02/10 - 02/12", 40, 25),
			sess("LJ-004-2026-03A", "2026/03/10 - 03/12", 40, 40)),
		fixture("LJ-005", "Longjing", "Forklift Operator", 18, 4500,
			sess("LJ-005-2026-02A", "2026/02/12 - 02/14", 25, 0),
			sess("LJ-005-2026-02B", "2026/02/26 - 02/28", 25, 15),
			sess("LJ-005-2026-03A", "2026/03/12 - 03/14", 25, 25)),
		fixture("LJ-006", "Longjing", "First Aid Personnel", 16, 3200,
			sess("LJ-006-2026-02A", "2026/02/19 - 02/20", 30, 5),
			sess("LJ-006-2026-03A", "2026/03/19 - 03/20", 30, 22)),
		fixture("LJ-007", "Longjing", "Aerial Work Platform Operator", 16, 5000,
			sess("LJ-007-2026-03A", "2026/03/05 - 03/06", 20, 14)),
		fixture("LJ-008", "Longjing", "Gondola Operator", 26, 5500,
			sess("LJ-008-2026-03A", "2026/03/17 - 03/20", 20, 18)),
	}
}

func fixture(id, location, name string, hours int, price int64, sessions ...catalog.SessionOffering) catalog.CourseOffering {
	return catalog.CourseOffering{
		CourseID:   id,
		CourseName: name,
		Location:   location,
		Hours:      hours,
		Price:      price,
		Sessions:   sessions,
	}
}

func sess(id, date string, quota, remaining int) catalog.SessionOffering {
	return catalog.SessionOffering{SessionID: id, Date: date, Quota: quota, Remaining: remaining}
}
