package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var firstNames = []string{
	"Ana", "Bruno", "Camila", "Diego", "Eduarda", "Felipe", "Gabriela", "Henrique", "Isabela", "João",
	"Larissa", "Lucas", "Mariana", "Mateus", "Natália", "Pedro", "Rafaela", "Rodrigo", "Sofia", "Thiago",
}
var lastNames = []string{
	"Silva", "Santos", "Oliveira", "Souza", "Lima", "Pereira", "Costa", "Ferreira", "Almeida", "Ribeiro",
}

var digits = "0123456789"

func GenerateRandomFullName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var accents = strings.NewReplacer("á", "a", "ã", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ç", "c")

// GenerateUsernameFromName lowercases a name, strips accents and appends a few digits.
func GenerateUsernameFromName(fullName string) string {
	username := accents.Replace(strings.ToLower(strings.ReplaceAll(fullName, " ", ".")))

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomPhone() string {
	phone := fmt.Sprintf("+55119%d", rand.Intn(9)+1)
	for i := 0; i < 7; i++ {
		phone += string(digits[rand.Intn(len(digits))])
	}
	return phone
}

func GenerateRandomUser(password string, emailDomainName string, role domain.Role) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Phone:        GenerateRandomPhone(),
		Role:         role,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

var gyms = []string{"Smart Fit Paulista", "Bodytech Itaim", "Bio Ritmo Moema", "Selfit Pinheiros"}

// GenerateRandomWeeklySchedule works one or two blocks on a random subset of weekdays.
func GenerateRandomWeeklySchedule(trainerID string) *domain.WeeklySchedule {
	s := &domain.WeeklySchedule{TrainerID: trainerID}

	// Fisher-Yates shuffle of the weekdays
	days := []int{0, 1, 2, 3, 4, 5, 6}
	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}
	days = days[:rand.Intn(len(days))+1]

	for _, d := range days {
		gym := domain.Location{Type: domain.LocationTypeGym, Name: gyms[rand.Intn(len(gyms))]}
		morningStart := rand.Intn(4) + 6
		dc := domain.DayConfig{
			Day: d,
			Intervals: []domain.WorkInterval{
				{Start: morningStart, End: morningStart + rand.Intn(4) + 1, Locations: []domain.Location{gym}},
			},
		}
		if rand.Intn(2) == 0 {
			eveningStart := rand.Intn(3) + 17
			dc.Intervals = append(dc.Intervals, domain.WorkInterval{
				Start:     eveningStart,
				End:       eveningStart + rand.Intn(23-eveningStart) + 1,
				Locations: []domain.Location{{Type: domain.LocationTypeDomicile}},
			})
		}
		s.Days = append(s.Days, dc)
	}

	s.DefaultLocationConfig = &domain.DefaultLocationConfig{
		Locations: []domain.Location{{Type: domain.LocationTypeGym, Name: gyms[0]}},
	}

	return s
}

// GenerateRandomAppointment picks a start inside the trainer's schedule during the next two weeks.
func GenerateRandomAppointment(s *domain.WeeklySchedule, studentID string, loc *time.Location) *domain.Appointment {
	if len(s.Days) == 0 {
		return nil
	}

	dc := s.Days[rand.Intn(len(s.Days))]
	if len(dc.Intervals) == 0 {
		return nil
	}
	in := dc.Intervals[rand.Intn(len(dc.Intervals))]

	now := time.Now().In(loc)
	offset := (dc.Day - int(now.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	offset += 7 * rand.Intn(2)

	y, m, d := now.AddDate(0, 0, offset).Date()
	start := time.Date(y, m, d, in.Start, 0, 0, 0, loc)

	subscription := fmt.Sprintf("sub_%06d", rand.Intn(1000000))
	return &domain.Appointment{
		TrainerID:      s.TrainerID,
		StudentID:      studentID,
		Location:       "Smart Fit Paulista",
		Date:           start,
		Duration:       60,
		Status:         domain.AppointmentPending,
		PaymentStatus:  domain.PaymentPaid,
		SubscriptionID: &subscription,
		PaidAt:         &now,
	}
}
