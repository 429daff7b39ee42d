package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signRaw(t *testing.T, method jwt.SigningMethod, claims jwt.Claims, key interface{}) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestRoundTrip(t *testing.T) {
	cfg := testConfig()
	iss := newTestIssuer(t, cfg, epoch)
	v := newTestValidator(t, cfg, epoch)

	tests := []struct {
		subject string
		email   string
		role    Role
	}{
		{"alice", "alice@x.com", RoleUser},
		{"bob", "bob@example.org", RoleAdmin},
		{"Ünïcødé", "u@x.com", RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			token, err := iss.Issue(tt.subject, tt.email, tt.role)
			require.NoError(t, err)

			require.NoError(t, v.Check(token))
			assert.True(t, v.Validate(token))

			username, err := v.ExtractUsername(token)
			require.NoError(t, err)
			assert.Equal(t, tt.subject, username)

			email, err := v.ExtractEmail(token)
			require.NoError(t, err)
			assert.Equal(t, tt.email, email)

			role, err := v.ExtractRole(token)
			require.NoError(t, err)
			assert.Equal(t, tt.role, role)

			issuer, err := v.ExtractIssuer(token)
			require.NoError(t, err)
			assert.Equal(t, "auth-service", issuer)

			aud, err := v.ExtractAudience(token)
			require.NoError(t, err)
			assert.Equal(t, "gateway", aud)

			iat, err := v.ExtractIssuedAt(token)
			require.NoError(t, err)
			assert.True(t, iat.Equal(epoch))

			nbf, err := v.ExtractNotBefore(token)
			require.NoError(t, err)
			assert.True(t, nbf.Equal(epoch))

			exp, err := v.ExtractExpiration(token)
			require.NoError(t, err)
			assert.True(t, exp.Equal(epoch.Add(cfg.TTL)))
		})
	}
}

func TestTamperedSignature(t *testing.T) {
	cfg := testConfig()
	iss := newTestIssuer(t, cfg, epoch)
	v := newTestValidator(t, cfg, epoch)

	token, err := iss.Issue("alice", "alice@x.com", RoleUser)
	require.NoError(t, err)

	sigStart := len(token) - 43 // HS256 signature is 43 base64url characters
	require.Equal(t, byte('.'), token[sigStart-1])

	// the final character carries padding bits, so it is skipped
	for i := sigStart; i < len(token)-1; i++ {
		tampered := []byte(token)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}
		assert.False(t, v.Validate(string(tampered)), "position %d", i)
		assert.ErrorIs(t, v.Check(string(tampered)), ErrMalformedToken)
	}
}

func TestTamperedPayload(t *testing.T) {
	cfg := testConfig()
	iss := newTestIssuer(t, cfg, epoch)
	v := newTestValidator(t, cfg, epoch)

	alice, err := iss.Issue("alice", "alice@x.com", RoleUser)
	require.NoError(t, err)
	admin, err := iss.Issue("root", "root@x.com", RoleAdmin)
	require.NoError(t, err)

	// splice the admin payload onto the user signature
	aliceParts := splitToken(t, alice)
	adminParts := splitToken(t, admin)
	forged := aliceParts[0] + "." + adminParts[1] + "." + aliceParts[2]

	assert.False(t, v.Validate(forged))
	assert.ErrorIs(t, v.Check(forged), ErrMalformedToken)
}

func TestMalformedTokens(t *testing.T) {
	cfg := testConfig()
	v := newTestValidator(t, cfg, epoch)

	claims := Claims{
		Email: "alice@x.com",
		Role:  RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(epoch),
			ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
		},
	}

	tests := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"two segments": "aGVhZGVy.cGF5bG9hZA",
		"bad base64":   "###.###.###",
		"wrong key":    signRaw(t, jwt.SigningMethodHS256, claims, []byte("another-secret-another-secret-xx")),
		"wrong alg":    signRaw(t, jwt.SigningMethodHS512, claims, []byte(testSecret)),
		"alg none":     signRaw(t, jwt.SigningMethodNone, claims, jwt.UnsafeAllowNoneSignatureType),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			assert.False(t, v.Validate(token))
			assert.ErrorIs(t, v.Check(token), ErrMalformedToken)

			_, err := v.ExtractUsername(token)
			assert.ErrorIs(t, err, ErrMalformedToken)
			_, err = v.ExtractRole(token)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestExpirationBoundary(t *testing.T) {
	cfg := testConfig()
	ttl := time.Hour
	iss := newTestIssuer(t, cfg, epoch)

	token, err := iss.IssueWithTTL("alice", "alice@x.com", RoleUser, ttl)
	require.NoError(t, err)

	tests := []struct {
		name string
		at   time.Time
		want error
	}{
		{"at issuance", epoch, nil},
		{"one second before expiry", epoch.Add(ttl - time.Second), nil},
		{"at expiry within skew", epoch.Add(ttl), nil},
		{"at expiry plus skew", epoch.Add(ttl + cfg.ClockSkew), ErrExpired},
		{"past expiry plus skew", epoch.Add(ttl + cfg.ClockSkew + time.Second), ErrExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t, cfg, tt.at)
			err := v.Check(token)
			if tt.want == nil {
				assert.NoError(t, err)
				assert.True(t, v.Validate(token))
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, v.Validate(token))
		})
	}
}

func TestZeroTTL(t *testing.T) {
	cfg := testConfig()
	iss := newTestIssuer(t, cfg, epoch)

	token, err := iss.IssueWithTTL("alice", "alice@x.com", RoleUser, 0)
	require.NoError(t, err)

	assert.True(t, newTestValidator(t, cfg, epoch).Validate(token), "still inside skew window")
	assert.False(t, newTestValidator(t, cfg, epoch.Add(cfg.ClockSkew+time.Second)).Validate(token))
}

func TestNotBeforeBoundary(t *testing.T) {
	cfg := testConfig()
	future := epoch.Add(10 * time.Minute)

	// issued by a clock running ten minutes ahead
	token, err := newTestIssuer(t, cfg, future).Issue("alice", "alice@x.com", RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name string
		at   time.Time
		want error
	}{
		{"well before nbf", epoch, ErrNotYetActive},
		{"just outside skew", future.Add(-cfg.ClockSkew - time.Second), ErrNotYetActive},
		{"at nbf minus skew", future.Add(-cfg.ClockSkew), nil},
		{"at nbf", future, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestValidator(t, cfg, tt.at).Check(token)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAbsentNotBeforeIsActive(t *testing.T) {
	cfg := testConfig()
	v := newTestValidator(t, cfg, epoch)

	token := signRaw(t, jwt.SigningMethodHS256, Claims{
		Email: "alice@x.com",
		Role:  RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
		},
	}, []byte(testSecret))

	assert.NoError(t, v.Check(token))
}

func TestAbsentExpirationIsRejected(t *testing.T) {
	cfg := testConfig()
	v := newTestValidator(t, cfg, epoch)

	token := signRaw(t, jwt.SigningMethodHS256, Claims{
		Email: "alice@x.com",
		Role:  RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "alice",
			Issuer:   cfg.Issuer,
			Audience: jwt.ClaimStrings{cfg.Audience},
		},
	}, []byte(testSecret))

	assert.ErrorIs(t, v.Check(token), ErrExpired)
}

func TestIssuerAudienceMismatch(t *testing.T) {
	cfg := testConfig()
	v := newTestValidator(t, cfg, epoch)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"issuer", func(c *Config) { c.Issuer = "rogue-service" }, ErrInvalidIssuer},
		{"audience", func(c *Config) { c.Audience = "billing" }, ErrInvalidAudience},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := testConfig()
			tt.mutate(&other)

			token, err := newTestIssuer(t, other, epoch).Issue("alice", "alice@x.com", RoleUser)
			require.NoError(t, err)

			assert.False(t, v.Validate(token))
			assert.ErrorIs(t, v.Check(token), tt.want)

			// accessors only guard against parse failures
			username, err := v.ExtractUsername(token)
			require.NoError(t, err)
			assert.Equal(t, "alice", username)
		})
	}
}

func TestMultipleAudiencesRejected(t *testing.T) {
	cfg := testConfig()
	v := newTestValidator(t, cfg, epoch)

	token := signRaw(t, jwt.SigningMethodHS256, Claims{
		Email: "alice@x.com",
		Role:  RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience, "billing"},
			ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
		},
	}, []byte(testSecret))

	assert.ErrorIs(t, v.Check(token), ErrInvalidAudience)
}

func TestCheckOrder(t *testing.T) {
	cfg := testConfig()

	// not yet active, wrong audience, wrong issuer: the active check comes first
	other := testConfig()
	other.Issuer = "rogue-service"
	other.Audience = "billing"
	token, err := newTestIssuer(t, other, epoch.Add(time.Hour)).Issue("alice", "alice@x.com", RoleUser)
	require.NoError(t, err)
	assert.ErrorIs(t, newTestValidator(t, cfg, epoch).Check(token), ErrNotYetActive)

	// active but wrong audience and issuer: audience comes before issuer
	assert.ErrorIs(t, newTestValidator(t, cfg, epoch.Add(time.Hour)).Check(token), ErrInvalidAudience)

	// expired with wrong issuer: expiry comes before issuer
	other = testConfig()
	other.Issuer = "rogue-service"
	token, err = newTestIssuer(t, other, epoch).IssueWithTTL("alice", "alice@x.com", RoleUser, time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, newTestValidator(t, cfg, epoch.Add(time.Hour)).Check(token), ErrExpired)
}

func TestAccessorsIgnoreExpiry(t *testing.T) {
	cfg := testConfig()
	token, err := newTestIssuer(t, cfg, epoch).IssueWithTTL("alice", "alice@x.com", RoleUser, time.Minute)
	require.NoError(t, err)

	v := newTestValidator(t, cfg, epoch.Add(24*time.Hour))
	assert.False(t, v.Validate(token))

	username, err := v.ExtractUsername(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestExtractUnknownRole(t *testing.T) {
	cfg := testConfig()
	v := newTestValidator(t, cfg, epoch)

	token := signRaw(t, jwt.SigningMethodHS256, Claims{
		Email: "alice@x.com",
		Role:  Role("SUPERUSER"),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
		},
	}, []byte(testSecret))

	assert.True(t, v.Validate(token))
	_, err := v.ExtractRole(token)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestValidatorConcurrentUse(t *testing.T) {
	cfg := testConfig()
	iss := newTestIssuer(t, cfg, epoch)
	v := newTestValidator(t, cfg, epoch)

	token, err := iss.Issue("alice", "alice@x.com", RoleUser)
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 16; i++ {
		go func() {
			ok := true
			for j := 0; j < 50; j++ {
				ok = ok && v.Validate(token)
			}
			done <- ok
		}()
	}
	for i := 0; i < 16; i++ {
		assert.True(t, <-done)
	}
}

func splitToken(t *testing.T, token string) []string {
	t.Helper()
	var parts []string
	start := 0
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			parts = append(parts, token[start:i])
			start = i + 1
		}
	}
	parts = append(parts, token[start:])
	require.Len(t, parts, 3)
	return parts
}
