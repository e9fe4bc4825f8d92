package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomWeeklyScheduleIsValid(t *testing.T) {
	for i := 0; i < 100; i++ {
		s := GenerateRandomWeeklySchedule("trainer-1")
		require.NoError(t, ValidateWeeklySchedule(s))
	}
}

func TestGenerateRandomAppointmentFallsOnScheduledDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	for i := 0; i < 50; i++ {
		s := GenerateRandomWeeklySchedule("trainer-1")
		a := GenerateRandomAppointment(s, "student-1", loc)
		require.NotNil(t, a)

		dc, ok := s.DayConfig(int(a.Date.Weekday()))
		require.True(t, ok)
		assert.True(t, a.Date.After(time.Now()))

		fits := false
		for _, in := range dc.Intervals {
			if a.Date.Hour() >= in.Start && a.Date.Hour()+a.Duration/60 <= in.End {
				fits = true
			}
		}
		assert.True(t, fits)
	}
}

func TestGenerateUsernameFromName(t *testing.T) {
	u := GenerateUsernameFromName("João Ribeiro")
	assert.True(t, strings.HasPrefix(u, "joao.ribeiro"), u)
	assert.Len(t, GenerateRandomOTP(), 6)
	assert.Len(t, GenerateRandomPassword(12), 12)
}

func TestGenerateRandomUser(t *testing.T) {
	u, err := GenerateRandomUser("secret", "example.com", domain.RoleTrainer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainer, u.Role)
	assert.True(t, strings.HasSuffix(u.Email, "@example.com"))
	assert.NotEqual(t, "secret", u.PasswordHash)
}
