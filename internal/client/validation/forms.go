package validation

import "github.com/calistrack/calistrack/internal/client/models"

type LoginForm struct {
	Email    string
	Password string
}

func ValidateLogin(f LoginForm) error {
	return first(func() *Error {
		return Required(Field{"email", f.Email}, Field{"password", f.Password})
	})
}

type RegisterForm struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Password     string
	Confirmation string
}

func ValidateRegister(f RegisterForm) error {
	return first(
		func() *Error {
			return Required(
				Field{"first name", f.FirstName},
				Field{"last name", f.LastName},
				Field{"email", f.Email},
				Field{"phone", f.Phone},
				Field{"password", f.Password},
				Field{"confirmation", f.Confirmation},
			)
		},
		func() *Error { return Email(f.Email) },
		func() *Error { return Phone(f.Phone) },
		func() *Error { return Confirm(f.Password, f.Confirmation) },
		func() *Error { return PasswordComplexity(f.Password) },
	)
}

func ValidateLostPassword(email string) error {
	return first(
		func() *Error { return Required(Field{"email", email}) },
		func() *Error { return Email(email) },
	)
}

// ValidateResetPassword only enforces the shorter legacy length, as the
// reset link flow always has.
func ValidateResetPassword(password, confirmation string) error {
	return first(
		func() *Error { return MinLength("password", password, MinLegacyPasswordLength) },
		func() *Error { return Confirm(password, confirmation) },
	)
}

type ProfileForm struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	// Password is optional; blank keeps the current one.
	Password     string
	Confirmation string
}

func ValidateProfile(f ProfileForm) error {
	return first(
		func() *Error {
			return Required(
				Field{"first name", f.FirstName},
				Field{"last name", f.LastName},
				Field{"email", f.Email},
				Field{"phone", f.Phone},
			)
		},
		func() *Error { return Email(f.Email) },
		func() *Error {
			if f.Password == "" && f.Confirmation == "" {
				return nil
			}
			return Confirm(f.Password, f.Confirmation)
		},
		func() *Error {
			if f.Password == "" {
				return nil
			}
			return MinLength("password", f.Password, MinLegacyPasswordLength)
		},
	)
}

func ValidatePasswordChange(password, confirmation string) error {
	return first(
		func() *Error { return Required(Field{"password", password}) },
		func() *Error { return Confirm(password, confirmation) },
		func() *Error { return PasswordComplexity(password) },
	)
}

// ExerciseForm holds the raw text typed for an exercise.
type ExerciseForm struct {
	Name string
	Sets string
	Reps string
	Rest string
}

// ValidateExercise checks f and returns the parsed exercise.
func ValidateExercise(f ExerciseForm) (models.Exercise, error) {
	if err := Required(Field{"name", f.Name}); err != nil {
		return models.Exercise{}, err
	}
	sets, err := PositiveInt("sets", f.Sets)
	if err != nil {
		return models.Exercise{}, err
	}
	reps, err := PositiveInt("reps", f.Reps)
	if err != nil {
		return models.Exercise{}, err
	}
	rest, err := NonNegativeInt("rest", f.Rest)
	if err != nil {
		return models.Exercise{}, err
	}

	return models.Exercise{
		Name:              f.Name,
		Sets:              models.Ptr(sets),
		Reps:              models.Ptr(reps),
		RestTimeInMinutes: models.Ptr(rest),
	}, nil
}

// TrainingForm holds the raw text typed for a training. Duration may be
// blank to use the estimate.
type TrainingForm struct {
	Name      string
	Date      string
	Duration  string
	Exercises int
}

// TrainingInput is a validated TrainingForm.
type TrainingInput struct {
	Name           string
	Date           models.Date
	ManualDuration int
}

func ValidateTraining(f TrainingForm) (TrainingInput, error) {
	if err := Required(Field{"name", f.Name}, Field{"date", f.Date}); err != nil {
		return TrainingInput{}, err
	}

	date, perr := models.ParseDate(f.Date)
	if perr != nil {
		return TrainingInput{}, &Error{Field: "date", Title: "Invalid date", Message: "use the YYYY-MM-DD format"}
	}

	in := TrainingInput{Name: f.Name, Date: date}
	if f.Duration != "" {
		d, err := NonNegativeInt("duration", f.Duration)
		if err != nil {
			return TrainingInput{}, err
		}
		in.ManualDuration = d
	}

	if f.Exercises == 0 {
		return TrainingInput{}, &Error{Field: "exercises", Title: "No exercise", Message: "select at least one exercise"}
	}
	return in, nil
}
