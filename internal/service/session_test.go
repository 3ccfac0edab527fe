package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zsoro2/word-app/internal/domain"
	"github.com/zsoro2/word-app/internal/testutil"
)

func TestSessionManager_Login(t *testing.T) {
	user := testutil.NewTestUser("user-1", "Test", "test@example.com")

	tests := []struct {
		name          string
		mockUser      *domain.User
		mockError     error
		expectedError bool
	}{
		{
			name:     "valid credentials",
			mockUser: user,
		},
		{
			name:          "invalid credentials",
			mockError:     fmt.Errorf("invalid email or password"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAccounts := new(testutil.MockAccountStore)
			mockAccounts.On("SignIn", mock.Anything, "test@example.com", "secret").
				Return(tt.mockUser, tt.mockError)

			m := NewSessionManager(mockAccounts, testutil.NewTestLogger())

			err := m.Login(context.Background(), "test@example.com", "secret")

			if tt.expectedError {
				var authErr *domain.AuthError
				assert.ErrorAs(t, err, &authErr)
				assert.False(t, m.IsAuthenticated())
				assert.Nil(t, m.CurrentUser())
			} else {
				assert.NoError(t, err)
				assert.True(t, m.IsAuthenticated())
				assert.Equal(t, "user-1", m.CurrentUser().ID)
			}

			mockAccounts.AssertExpectations(t)
		})
	}
}

func TestSessionManager_Signup(t *testing.T) {
	tests := []struct {
		name          string
		mockUser      *domain.User
		mockError     error
		expectedError bool
	}{
		{
			name:     "new account",
			mockUser: testutil.NewTestUser("user-2", "New", "new@example.com"),
		},
		{
			name:          "duplicate email",
			mockError:     fmt.Errorf("email already registered"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAccounts := new(testutil.MockAccountStore)
			mockAccounts.On("SignUp", mock.Anything, "New", "new@example.com", "secret12").
				Return(tt.mockUser, tt.mockError)

			m := NewSessionManager(mockAccounts, testutil.NewTestLogger())

			err := m.Signup(context.Background(), "New", "new@example.com", "secret12")

			if tt.expectedError {
				assert.Error(t, err)
				assert.False(t, m.IsAuthenticated())
			} else {
				assert.NoError(t, err)
				assert.True(t, m.IsAuthenticated())
			}

			mockAccounts.AssertExpectations(t)
		})
	}
}

func TestSessionManager_Logout(t *testing.T) {
	tests := []struct {
		name          string
		mockError     error
		expectedError bool
	}{
		{
			name: "clean logout",
		},
		{
			name:          "remote failure still clears local state",
			mockError:     fmt.Errorf("network down"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := testutil.NewTestUser("user-1", "Test", "test@example.com")
			mockAccounts := new(testutil.MockAccountStore)
			mockAccounts.On("SignIn", mock.Anything, "test@example.com", "secret").Return(user, nil)
			mockAccounts.On("SignOut", mock.Anything).Return(tt.mockError)

			m := NewSessionManager(mockAccounts, testutil.NewTestLogger())
			assert.NoError(t, m.Login(context.Background(), "test@example.com", "secret"))

			err := m.Logout(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			// Local state must never be left stale, error or not.
			assert.False(t, m.IsAuthenticated())
			assert.Nil(t, m.CurrentUser())
		})
	}
}

func TestSessionManager_UpdateName(t *testing.T) {
	t.Run("no active session", func(t *testing.T) {
		m := NewSessionManager(new(testutil.MockAccountStore), testutil.NewTestLogger())

		err := m.UpdateName(context.Background(), "Someone")
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})

	t.Run("updates the held record", func(t *testing.T) {
		user := testutil.NewTestUser("user-1", "Old", "test@example.com")
		renamed := testutil.NewTestUser("user-1", "New", "test@example.com")

		mockAccounts := new(testutil.MockAccountStore)
		mockAccounts.On("SignIn", mock.Anything, "test@example.com", "secret").Return(user, nil)
		mockAccounts.On("UpdateName", mock.Anything, "New").Return(renamed, nil)

		m := NewSessionManager(mockAccounts, testutil.NewTestLogger())
		assert.NoError(t, m.Login(context.Background(), "test@example.com", "secret"))

		assert.NoError(t, m.UpdateName(context.Background(), "New"))
		assert.Equal(t, "New", m.CurrentUser().Name)
		mockAccounts.AssertExpectations(t)
	})

	t.Run("remote failure keeps the old record", func(t *testing.T) {
		user := testutil.NewTestUser("user-1", "Old", "test@example.com")

		mockAccounts := new(testutil.MockAccountStore)
		mockAccounts.On("SignIn", mock.Anything, "test@example.com", "secret").Return(user, nil)
		mockAccounts.On("UpdateName", mock.Anything, "New").Return(nil, fmt.Errorf("rejected"))

		m := NewSessionManager(mockAccounts, testutil.NewTestLogger())
		assert.NoError(t, m.Login(context.Background(), "test@example.com", "secret"))

		err := m.UpdateName(context.Background(), "New")
		assert.Error(t, err)
		assert.Equal(t, "Old", m.CurrentUser().Name)
	})
}

func TestSessionManager_Restore(t *testing.T) {
	t.Run("recovers an existing session", func(t *testing.T) {
		user := testutil.NewTestUser("user-1", "Test", "test@example.com")
		mockAccounts := new(testutil.MockAccountStore)
		mockAccounts.On("Current", mock.Anything).Return(user, nil)

		m := NewSessionManager(mockAccounts, testutil.NewTestLogger())
		m.Restore(context.Background())

		assert.True(t, m.IsAuthenticated())
	})

	t.Run("failure collapses to no session", func(t *testing.T) {
		mockAccounts := new(testutil.MockAccountStore)
		mockAccounts.On("Current", mock.Anything).Return(nil, fmt.Errorf("network down"))

		m := NewSessionManager(mockAccounts, testutil.NewTestLogger())
		m.Restore(context.Background())

		assert.False(t, m.IsAuthenticated())
	})
}

func TestSessionManager_Subscribe(t *testing.T) {
	user := testutil.NewTestUser("user-1", "Test", "test@example.com")
	mockAccounts := new(testutil.MockAccountStore)
	mockAccounts.On("SignIn", mock.Anything, "test@example.com", "secret").Return(user, nil)
	mockAccounts.On("SignOut", mock.Anything).Return(nil)

	m := NewSessionManager(mockAccounts, testutil.NewTestLogger())

	var transitions []*domain.User
	m.Subscribe(func(u *domain.User) {
		transitions = append(transitions, u)
	})

	assert.NoError(t, m.Login(context.Background(), "test@example.com", "secret"))
	assert.NoError(t, m.Logout(context.Background()))

	assert.Len(t, transitions, 2)
	assert.Equal(t, "user-1", transitions[0].ID)
	assert.Nil(t, transitions[1])
}

func TestSessionManager_CurrentUserIsACopy(t *testing.T) {
	user := testutil.NewTestUser("user-1", "Test", "test@example.com")
	mockAccounts := new(testutil.MockAccountStore)
	mockAccounts.On("SignIn", mock.Anything, "test@example.com", "secret").Return(user, nil)

	m := NewSessionManager(mockAccounts, testutil.NewTestLogger())
	assert.NoError(t, m.Login(context.Background(), "test@example.com", "secret"))

	got := m.CurrentUser()
	got.Name = "Mutated"
	assert.Equal(t, "Test", m.CurrentUser().Name)
}
