// Package developer unifies the many (name, email) signatures seen across
// a repository's commits into one DeveloperIdentity per actual person
// (C11), per §4.11's email/name precedence rule.
package developer

import (
	"sort"

	"github.com/mrshoenel/git-density/internal/vcs"
	"github.com/mrshoenel/git-density/pkg/models"
)

// Unifier incrementally builds the identity registry. Use New and repeated
// calls to Observe in chronologically ascending order, per the algorithm's
// requirement that traversal order determines which signature becomes
// canonical.
type Unifier struct {
	byName  map[string]*models.DeveloperIdentity
	byEmail map[string]*models.DeveloperIdentity
	order   []*models.DeveloperIdentity
	seen    map[*models.DeveloperIdentity]struct{}
	anon    *models.DeveloperIdentity
}

// New creates an empty Unifier.
func New() *Unifier {
	return &Unifier{
		byName:  make(map[string]*models.DeveloperIdentity),
		byEmail: make(map[string]*models.DeveloperIdentity),
		seen:    make(map[*models.DeveloperIdentity]struct{}),
	}
}

// Observe folds one signature into the registry, returning the identity it
// resolved to.
func (u *Unifier) Observe(sig vcs.Signature) *models.DeveloperIdentity {
	name, email := sig.Name, sig.Email
	normName := models.NormalizeIdentityField(name)
	normEmail := models.NormalizeIdentityField(email)

	var id *models.DeveloperIdentity
	switch {
	case normName == "" && normEmail == "":
		id = u.anonymous()
	case normEmail == "":
		id = u.lookupOrCreateByName(normName, name, email)
	case normName == "":
		id = u.lookupOrCreateByEmail(normEmail, name, email)
	default:
		id = u.lookupOrCreateByBoth(normName, normEmail, name, email)
	}

	altName, altEmail := name, email
	if name == id.CanonicalName {
		altName = ""
	}
	if email == id.CanonicalEmail {
		altEmail = ""
	}
	id.AddAlternative(altName, altEmail)
	u.record(id)
	return id
}

func (u *Unifier) anonymous() *models.DeveloperIdentity {
	if u.anon == nil {
		u.anon = models.NewDeveloperIdentity("", "")
	}
	return u.anon
}

func (u *Unifier) lookupOrCreateByName(normName, name, email string) *models.DeveloperIdentity {
	if id, ok := u.byName[normName]; ok {
		return id
	}
	id := models.NewDeveloperIdentity(name, email)
	u.byName[normName] = id
	return id
}

func (u *Unifier) lookupOrCreateByEmail(normEmail, name, email string) *models.DeveloperIdentity {
	if id, ok := u.byEmail[normEmail]; ok {
		return id
	}
	id := models.NewDeveloperIdentity(name, email)
	u.byEmail[normEmail] = id
	return id
}

// lookupOrCreateByBoth implements email precedence: reuse the email-keyed
// identity if one exists, else the name-keyed identity, else register a
// brand-new identity under both keys.
func (u *Unifier) lookupOrCreateByBoth(normName, normEmail, name, email string) *models.DeveloperIdentity {
	if id, ok := u.byEmail[normEmail]; ok {
		u.byName[normName] = id
		return id
	}
	if id, ok := u.byName[normName]; ok {
		u.byEmail[normEmail] = id
		return id
	}
	id := models.NewDeveloperIdentity(name, email)
	u.byName[normName] = id
	u.byEmail[normEmail] = id
	return id
}

func (u *Unifier) record(id *models.DeveloperIdentity) {
	if _, ok := u.seen[id]; ok {
		return
	}
	u.seen[id] = struct{}{}
	u.order = append(u.order, id)
}

// Identities returns every distinct identity observed so far, in order of
// first appearance.
func (u *Unifier) Identities() []*models.DeveloperIdentity {
	return append([]*models.DeveloperIdentity(nil), u.order...)
}

// Unify is a convenience wrapper: sorts signatures chronologically
// ascending by when, observes each, and returns the resulting identities
// in order of first appearance.
func Unify(sigs []vcs.Signature) []*models.DeveloperIdentity {
	ordered := append([]vcs.Signature(nil), sigs...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].When.Before(ordered[j].When) })

	u := New()
	for _, s := range ordered {
		u.Observe(s)
	}
	return u.Identities()
}
