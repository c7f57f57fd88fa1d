package group

type CreateRequest struct {
	// Pointer so an absent field and an empty string report differently.
	Name         *string  `json:"name"`
	MemberEmails []string `json:"memberEmails"`
}

type EditMembersRequest struct {
	Emails []string `json:"emails"`
}

type DeleteRequest struct {
	// Pointer so an absent field and an empty string report differently.
	Name *string `json:"name"`
}

// CreateResponse reports the created group plus the emails that could not
// become members and why.
type CreateResponse struct {
	Group           Info     `json:"group"`
	AlreadyInGroup  []string `json:"alreadyInGroup"`
	MembersNotFound []string `json:"membersNotFound"`
}

type AddResponse struct {
	Group           Info     `json:"group"`
	AlreadyInGroup  []string `json:"alreadyInGroup"`
	MembersNotFound []string `json:"membersNotFound"`
}

type RemoveResponse struct {
	Group           Info     `json:"group"`
	NotInGroup      []string `json:"notInGroup"`
	MembersNotFound []string `json:"membersNotFound"`
}
