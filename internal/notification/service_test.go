package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"BirthdayRoster/internal/employee"
	"BirthdayRoster/internal/settings"
	"BirthdayRoster/internal/storage"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

// fakeMailer records dispatches and can fail the first n attempts.
type fakeMailer struct {
	sent     []sentMail
	failNext int
	failAll  bool
}

func (m *fakeMailer) Send(_ context.Context, to []string, subject, body string) error {
	if m.failAll {
		return errors.New("transport down")
	}
	if m.failNext > 0 {
		m.failNext--
		return errors.New("transport down")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
}

// newService seeds the roster and settings through their storage
// backends, the way a previous session would have left them.
func newService(t *testing.T, employees []employee.Employee, cfg settings.Settings, mailer *fakeMailer) (*Service, *settings.Store) {
	t.Helper()

	empRepo := employee.NewChunkedRepository(storage.NewMemKV(0), "", zap.NewNop())
	require.NoError(t, empRepo.Save(employees))
	empStore := employee.NewStore(empRepo, zap.NewNop())

	setRepo := settings.NewKVRepository(storage.NewMemKV(0), zap.NewNop())
	require.NoError(t, setRepo.Save(cfg))
	setStore := settings.NewStore(setRepo, zap.NewNop())

	return NewService(empStore, setStore, mailer, zap.NewNop()), setStore
}

func rosterWithBirthday(birthDates ...string) []employee.Employee {
	out := make([]employee.Employee, len(birthDates))
	for i, bd := range birthDates {
		out[i] = employee.Employee{
			ID:         string(rune('a' + i)),
			Name:       "Employee " + string(rune('A'+i)),
			CostCenter: "210",
			ImageURL:   "data:image/jpeg;base64,AA==",
			BirthDate:  bd,
		}
	}
	return out
}

func gfSettings() settings.Settings {
	cfg := settings.Default()
	cfg.EmailSettings.GF = []string{"a@x", "", "", "", "b@x"}
	return cfg
}

func TestResolveRecipients(t *testing.T) {
	es := settings.EmailSettings{
		GF:               []string{"a@x", "", "", " ", "b@x"},
		DepartmentEmails: []settings.DepartmentEmail{{Email: "c@x", CostCenter: "210"}},
	}

	assert.Equal(t, []string{"a@x", "b@x", "c@x"}, ResolveRecipients(es, "210"))
	assert.Equal(t, []string{"a@x", "b@x"}, ResolveRecipients(es, "999"))
}

func TestResolveRecipientsCollapsesDuplicates(t *testing.T) {
	es := settings.EmailSettings{
		GF:               []string{"a@x", "a@x"},
		DepartmentEmails: []settings.DepartmentEmail{{Email: "a@x", CostCenter: "210"}},
	}
	assert.Equal(t, []string{"a@x"}, ResolveRecipients(es, "210"))
}

func TestMatchIgnoresBirthYear(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := newService(t, rosterWithBirthday("1980-03-15"), gfSettings(), mailer)

	fired, err := svc.RunCheck(context.Background(), fixedNow())
	require.NoError(t, err)
	assert.True(t, fired)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"a@x", "b@x"}, mailer.sent[0].to)
}

func TestNoMatchNoDispatch(t *testing.T) {
	mailer := &fakeMailer{}
	svc, setStore := newService(t, rosterWithBirthday("1980-03-16", "", "bad-date"), gfSettings(), mailer)

	fired, err := svc.RunCheck(context.Background(), fixedNow())
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, setStore.Get().LastNotification)
}

func TestSameDayDedup(t *testing.T) {
	mailer := &fakeMailer{}
	svc, setStore := newService(t, rosterWithBirthday("1980-03-15"), gfSettings(), mailer)

	fired, err := svc.RunCheck(context.Background(), fixedNow())
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, "2024-03-15", setStore.Get().LastNotification)

	// Second check the same day must not dispatch again.
	fired, err = svc.RunCheck(context.Background(), fixedNow().Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Len(t, mailer.sent, 1)

	// Next day the same birthday fires again.
	fired, err = svc.RunCheck(context.Background(), fixedNow().AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Len(t, mailer.sent, 2)
}

func TestFailedDispatchLeavesDedupUntouched(t *testing.T) {
	mailer := &fakeMailer{failAll: true}
	svc, setStore := newService(t, rosterWithBirthday("1980-03-15"), gfSettings(), mailer)

	fired, err := svc.RunCheck(context.Background(), fixedNow())
	assert.ErrorIs(t, err, ErrAllDispatchesFailed)
	assert.False(t, fired)
	assert.Empty(t, setStore.Get().LastNotification)

	// A later check the same day may retry and succeed.
	mailer.failAll = false
	fired, err = svc.RunCheck(context.Background(), fixedNow())
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, "2024-03-15", setStore.Get().LastNotification)
}

func TestPartialFailureStillMarksFired(t *testing.T) {
	mailer := &fakeMailer{failNext: 1}
	svc, setStore := newService(t, rosterWithBirthday("1980-03-15", "1990-03-15"), gfSettings(), mailer)

	fired, err := svc.RunCheck(context.Background(), fixedNow())
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Len(t, mailer.sent, 1)
	assert.Equal(t, "2024-03-15", setStore.Get().LastNotification)
}

func TestEmptyRecipientSetSkipsSilently(t *testing.T) {
	mailer := &fakeMailer{}
	svc, setStore := newService(t, rosterWithBirthday("1980-03-15"), settings.Default(), mailer)

	fired, err := svc.RunCheck(context.Background(), fixedNow())
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, setStore.Get().LastNotification)
}

func TestOneMessagePerMatchedRecord(t *testing.T) {
	mailer := &fakeMailer{}
	roster := rosterWithBirthday("1980-03-15", "1975-03-15")
	roster[1].CostCenter = "305"
	cfg := gfSettings()
	cfg.EmailSettings.DepartmentEmails = []settings.DepartmentEmail{
		{Email: "c@x", CostCenter: "305"},
	}
	svc, _ := newService(t, roster, cfg, mailer)

	fired, err := svc.RunCheck(context.Background(), fixedNow())
	require.NoError(t, err)
	assert.True(t, fired)
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, []string{"a@x", "b@x"}, mailer.sent[0].to)
	assert.Equal(t, []string{"a@x", "b@x", "c@x"}, mailer.sent[1].to)
	assert.Contains(t, mailer.sent[0].subject, "Employee A")
	assert.Contains(t, mailer.sent[1].body, "305")
}
