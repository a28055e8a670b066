package storage

// Collection keys. They are persisted as-is by every backend and must stay
// stable so that previously stored data remains readable.
const (
	KeyProfile              = "userProfile"
	KeyWorkouts             = "workouts"
	KeyDailyGoals           = "dailyGoals"
	KeyWeeklyGoals          = "weeklyGoals"
	KeyWeightHistory        = "weightHistory"
	KeyGuestUser            = "guestUser"
	KeyCustomPrograms       = "customPrograms"
	KeyCustomMealPlans      = "customMealPlans"
	KeyNutritionLogs        = "dailyNutritionLogs"
	KeyHolisticGoals        = "holisticGoals"
	KeyFinancialGoals       = "financialGoals"
	KeyIntellectualGoals    = "intellectualGoals"
	KeyCareerMilestones     = "careerMilestones"
	KeyHealthConsiderations = "healthConsiderations"
	KeyMindfulnessSessions  = "mindfulnessSessions"
	KeySupplements          = "supplements"

	// KeyGuestMode is the device flag set when the user chose guest mode.
	KeyGuestMode = "guestMode"
)

// CollectionKeys lists every user data collection. The guest identity and
// the guest mode flag are device state, not user data, and are not included.
var CollectionKeys = []string{
	KeyProfile,
	KeyWorkouts,
	KeyDailyGoals,
	KeyWeeklyGoals,
	KeyWeightHistory,
	KeyCustomPrograms,
	KeyCustomMealPlans,
	KeyNutritionLogs,
	KeyHolisticGoals,
	KeyFinancialGoals,
	KeyIntellectualGoals,
	KeyCareerMilestones,
	KeyHealthConsiderations,
	KeyMindfulnessSessions,
	KeySupplements,
}
