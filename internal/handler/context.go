package handler

type ContextKey string

var (
	RoleCtxKey     ContextKey = "role"
	SubCtxKey      ContextKey = "sub"
	MyInfoCtx      ContextKey = "myInfo"
	AppointmentCtx ContextKey = "appointment"
	PartnerGymCtx  ContextKey = "partnerGym"
	WorkoutCtx     ContextKey = "singleWorkout"
)
