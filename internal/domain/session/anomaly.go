package session

import (
	"net"
	"strings"
	"time"

	"licentia/internal/shared/biztime"
)

// Indicator names one anomaly signal that fired during an evaluation.
type Indicator string

const (
	IndicatorIPMismatch       Indicator = "ip_mismatch"
	IndicatorUserAgentChange  Indicator = "user_agent_change"
	IndicatorImplausibleMove  Indicator = "implausible_ip_change"
	IndicatorTimingAnomaly    Indicator = "timing_anomaly"
	IndicatorMaliciousIP      Indicator = "malicious_ip"
)

// indicator weights; the malicious-IP and implausible-move signals count
// double because either alone is a strong hijacking hint.
const (
	weightIPMismatch      = 1
	weightUserAgentChange = 1
	weightImplausibleMove = 2
	weightTimingAnomaly   = 1
	weightMaliciousIP     = 2
)

// implausibleMoveWindow is the maximum session age within which a network
// change is treated as physically implausible.
const implausibleMoveWindow = 10 * time.Minute

// RequestMeta is the normalized metadata the HTTP layer supplies for each
// authenticated request.
type RequestMeta struct {
	IPAddress string
	UserAgent string
	ViaProxy  bool // request arrived through a known proxy/load-balancer
}

// Evaluation is the scored outcome of one anomaly check.
type Evaluation struct {
	Score      int
	Indicators []Indicator
}

// Exceeds reports whether the evaluation crosses the suspicion threshold.
func (e Evaluation) Exceeds(threshold int) bool {
	return e.Score >= threshold
}

// Detector scores live sessions against heuristic hijacking indicators.
type Detector struct {
	threshold    int
	maliciousNet []*net.IPNet
}

// NewDetector builds a detector with the given suspicion threshold and a
// locally-known malicious IP pattern list in CIDR notation. Invalid
// entries are skipped.
func NewDetector(threshold int, maliciousCIDRs []string) *Detector {
	if threshold <= 0 {
		threshold = 3
	}
	nets := make([]*net.IPNet, 0, len(maliciousCIDRs))
	for _, cidr := range maliciousCIDRs {
		if _, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr)); err == nil {
			nets = append(nets, ipNet)
		}
	}
	return &Detector{threshold: threshold, maliciousNet: nets}
}

// Threshold returns the configured suspicion threshold.
func (d *Detector) Threshold() int {
	return d.threshold
}

// Evaluate scores one request against the session it claims to belong to.
// A stable session (same IP, same user agent, sane timing) scores zero.
func (d *Detector) Evaluate(s *Session, meta RequestMeta) Evaluation {
	var eval Evaluation

	ipChanged := meta.IPAddress != "" && s.IPAddress != "" && meta.IPAddress != s.IPAddress
	// Proxy hops legitimately rewrite the client address.
	if ipChanged && !meta.ViaProxy {
		eval.add(IndicatorIPMismatch, weightIPMismatch)

		if s.Age() <= implausibleMoveWindow && !sameNetwork(s.IPAddress, meta.IPAddress) {
			eval.add(IndicatorImplausibleMove, weightImplausibleMove)
		}
	}

	if meta.UserAgent != "" && s.UserAgent != "" &&
		browserFamily(meta.UserAgent) != browserFamily(s.UserAgent) {
		eval.add(IndicatorUserAgentChange, weightUserAgentChange)
	}

	// Activity stamped in the future means replayed or tampered state.
	if s.LastActivityAt.After(biztime.NowUTC().Add(time.Minute)) {
		eval.add(IndicatorTimingAnomaly, weightTimingAnomaly)
	}

	if d.isMalicious(meta.IPAddress) {
		eval.add(IndicatorMaliciousIP, weightMaliciousIP)
	}

	return eval
}

func (e *Evaluation) add(ind Indicator, weight int) {
	e.Score += weight
	e.Indicators = append(e.Indicators, ind)
}

func (d *Detector) isMalicious(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, ipNet := range d.maliciousNet {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// sameNetwork approximates "geographically plausible" without a geo
// database: IPv4 addresses sharing a /16, or IPv6 sharing a /32, are
// treated as the same network.
func sameNetwork(a, b string) bool {
	ipA := net.ParseIP(a)
	ipB := net.ParseIP(b)
	if ipA == nil || ipB == nil {
		return false
	}
	if v4A, v4B := ipA.To4(), ipB.To4(); v4A != nil && v4B != nil {
		return v4A[0] == v4B[0] && v4A[1] == v4B[1]
	}
	ip16A, ip16B := ipA.To16(), ipB.To16()
	if ip16A == nil || ip16B == nil {
		return false
	}
	return ip16A[0] == ip16B[0] && ip16A[1] == ip16B[1] &&
		ip16A[2] == ip16B[2] && ip16A[3] == ip16B[3]
}

// browserFamily extracts a coarse browser family from a user-agent string.
// Order matters: Edge and Opera embed "Chrome", Chrome embeds "Safari".
func browserFamily(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case strings.Contains(ua, "edg/"), strings.Contains(ua, "edge"):
		return "edge"
	case strings.Contains(ua, "opr/"), strings.Contains(ua, "opera"):
		return "opera"
	case strings.Contains(ua, "chrome"), strings.Contains(ua, "crios"):
		return "chrome"
	case strings.Contains(ua, "firefox"), strings.Contains(ua, "fxios"):
		return "firefox"
	case strings.Contains(ua, "safari"):
		return "safari"
	case strings.Contains(ua, "bot"), strings.Contains(ua, "curl"), strings.Contains(ua, "wget"):
		return "bot"
	default:
		return "other"
	}
}
