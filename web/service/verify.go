package service

import (
	"fmt"
	"time"

	"github.com/hanlovechurch/church-ui/database"
	"github.com/hanlovechurch/church-ui/database/model"
	"github.com/hanlovechurch/church-ui/util/random"
	"github.com/hanlovechurch/church-ui/web/session"
)

const (
	codeLength = 6
	codeTTL    = 5 * time.Minute
)

const (
	registerMailSubject = "한사랑교회 이메일 인증번호입니다."
	resetMailSubject    = "한사랑교회 비밀번호 재설정 인증번호입니다."
)

// VerificationService issues the one-time codes for registration and
// password reset. A challenge is only handed back to the caller after the
// mail carrying its code was accepted for delivery, so a session is never
// left holding a code nobody received.
type VerificationService struct {
	mail Sender
	now  func() time.Time
}

func NewVerificationService(mail Sender) *VerificationService {
	return &VerificationService{mail: mail, now: time.Now}
}

// newChallenge produces a 6-digit code with a 5-minute absolute expiry.
// Codes are scoped per session, so collisions across sessions are harmless.
func (s *VerificationService) newChallenge(username, email string) session.Challenge {
	return session.Challenge{
		Username: username,
		Email:    email,
		Code:     random.Code(codeLength),
		Expires:  s.now().Add(codeTTL),
	}
}

// BeginRegistration starts the registration flow for email. The address must
// not belong to an existing account.
func (s *VerificationService) BeginRegistration(email string) (*session.Challenge, error) {
	db := database.GetDB()

	var existing model.User
	err := db.Model(model.User{}).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	} else if !database.IsNotFound(err) {
		return nil, err
	}

	ch := s.newChallenge("", email)
	body := fmt.Sprintf(`
		<h2>한사랑교회 이메일 인증번호</h2>
		<p>요청하신 이메일 인증번호는 다음과 같습니다.</p>
		<p style="font-size: 24px; font-weight: bold; color: #007BFF;">%s</p>
		<p>5분 이내에 인증번호를 입력해 주세요.</p>`, ch.Code)

	if err := s.mail.Send(email, registerMailSubject, body); err != nil {
		return nil, err
	}
	return &ch, nil
}

// BeginPasswordReset starts the reset flow for the account addressed by
// identity (username or email). The code is always sent to the account's
// registered address.
func (s *VerificationService) BeginPasswordReset(identity string) (*session.Challenge, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ? OR email = ?", identity, identity).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	ch := s.newChallenge(user.Username, user.Email)
	body := fmt.Sprintf(`
		<h2>한사랑교회 비밀번호 재설정 인증번호</h2>
		<p>안녕하세요, %s님.</p>
		<p>요청하신 비밀번호 재설정 인증번호는 다음과 같습니다.</p>
		<p style="font-size: 24px; font-weight: bold; color: #007BFF;">%s</p>
		<p>5분 이내에 인증번호를 입력해 주세요.</p>`, user.Name, ch.Code)

	if err := s.mail.Send(user.Email, resetMailSubject, body); err != nil {
		return nil, err
	}
	return &ch, nil
}
