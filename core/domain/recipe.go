// ABOUTME: Recipe domain model represents the server-side identity of an imported recipe
// ABOUTME: Handles the loose shapes Mealie returns from its create and search endpoints

package domain

import "encoding/json"

// RecipeReference is the server-returned identity of an imported or found
// recipe. Slug may arrive asynchronously: immediately after a create-by-URL
// call the server may not have assigned one yet.
type RecipeReference struct {
	ID        string `json:"id,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Name      string `json:"name,omitempty"`
	OriginURL string `json:"orgURL,omitempty"`
}

// HasSlug reports whether the reference can be used to build an editor
// deep link.
func (r *RecipeReference) HasSlug() bool {
	return r != nil && r.Slug != ""
}

// ParseRecipeReference decodes a Mealie recipe payload. The create-by-URL
// endpoint is inconsistent across server versions: some return a full
// recipe object, others return a bare JSON string holding the slug.
func ParseRecipeReference(data []byte) (*RecipeReference, error) {
	var slug string
	if err := json.Unmarshal(data, &slug); err == nil {
		return &RecipeReference{Slug: slug}, nil
	}

	var ref RecipeReference
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, err
	}

	// Some responses carry a name but neither id nor slug; the name is
	// the best slug candidate we have.
	if ref.ID == "" && ref.Slug == "" && ref.Name != "" {
		ref.Slug = ref.Name
	}

	return &ref, nil
}
