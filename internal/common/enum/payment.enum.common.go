package enum

/*----------- PaymentStatusEnum -----------*/

// PaymentStatusEnum mirrors the transaction statuses reported by Paystack.
type PaymentStatusEnum string

const (
	PENDING   PaymentStatusEnum = "pending"
	SUCCESS   PaymentStatusEnum = "success"
	FAILED    PaymentStatusEnum = "failed"
	ABANDONED PaymentStatusEnum = "abandoned"
	REVERSED  PaymentStatusEnum = "reversed"
)

func (e PaymentStatusEnum) ToString() string {
	return string(e)
}

func (e PaymentStatusEnum) IsValid() bool {
	switch e {
	case PENDING, SUCCESS, FAILED, ABANDONED, REVERSED:
		return true
	}
	return false
}

/*----------- EmailServiceEnum -----------*/

type EmailServiceEnum string

const (
	CONSOLE    EmailServiceEnum = "console"
	SMTP       EmailServiceEnum = "smtp"
	NODEMAILER EmailServiceEnum = "nodemailer"
	RESEND     EmailServiceEnum = "resend"
)

func (e EmailServiceEnum) ToString() string {
	return string(e)
}

func (e EmailServiceEnum) IsValid() bool {
	switch e {
	case CONSOLE, SMTP, NODEMAILER, RESEND:
		return true
	}
	return false
}
