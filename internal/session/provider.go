package session

import (
	"context"

	"labor-board/internal/usecase"
	ucauth "labor-board/internal/usecase/auth"
)

// AuthAdapter bridges the token-issuing auth usecase to the machine's
// Provider port: commands discard the issued tokens (the machine cares
// only about session validity) and the usecase's event stream feeds Run.
type AuthAdapter struct {
	auth usecase.AuthUsecase
}

func NewAuthAdapter(auth usecase.AuthUsecase) *AuthAdapter {
	return &AuthAdapter{auth: auth}
}

func (a *AuthAdapter) SignUp(ctx context.Context, email, password string) error {
	_, _, _, err := a.auth.Register(ctx, ucauth.RegisterInput{Email: email, Password: password})
	return err
}

func (a *AuthAdapter) SignIn(ctx context.Context, email, password string) error {
	_, _, _, err := a.auth.Login(ctx, ucauth.LoginInput{Email: email, Password: password})
	return err
}

func (a *AuthAdapter) SendOTP(ctx context.Context, phone string) error {
	return a.auth.SendOTP(ctx, phone)
}

func (a *AuthAdapter) VerifyOTP(ctx context.Context, phone, code string) error {
	_, _, _, err := a.auth.VerifyOTP(ctx, phone, code)
	return err
}

func (a *AuthAdapter) SignOut(ctx context.Context) error {
	id, _ := (usecase.ContextIdentity{}).CurrentUserID(ctx)
	return a.auth.SignOut(ctx, id)
}

// Events converts the usecase's session-event stream into the machine's
// event type. The returned channel closes when the source does or ctx ends.
func (a *AuthAdapter) Events(ctx context.Context) <-chan Event {
	src := a.auth.Events()
	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-src:
				if !ok {
					return
				}
				select {
				case out <- Event{UserID: ev.UserID, Authenticated: ev.Authenticated}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
