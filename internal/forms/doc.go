// Package forms turns untrusted submitted form fields into sanitized values
// ready to be stored.
//
// Every entity has its own rule set. Each field is validated first and then
// sanitized (trimmed, HTML-escaped, coerced to a date). All fields are always
// checked, so a single submission reports every problem at once:
//
//	fields, errs := forms.Author(forms.Values(req.PostForm))
//	if len(errs) > 0 {
//		// redisplay the form with fields and errs
//	}
//
// Escaping is applied to every user supplied string before it reaches the
// database; rendered pages can embed stored values without re-escaping.
package forms
