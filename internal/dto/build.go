package dto

import (
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/pkg/storage"
)

// FileURL maps a stored file reference to its public URL. A nil ref
// stays nil so empty file slots serialize as null.
func FileURL(fs storage.FileStorage, ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	url := fs.URL(*ref)
	return &url
}

func NewProfileNameResponse(n model.ProfileName) ProfileNameResponse {
	return ProfileNameResponse{
		Language:   n.Language,
		FirstName:  n.FirstName,
		LastName:   n.LastName,
		FatherName: n.FatherName,
	}
}

func NewEmploymentResponse(e model.Employment) EmploymentResponse {
	resp := EmploymentResponse{
		ID:         e.ID,
		Type:       e.Type,
		Rate:       e.Rate,
		Department: NewDepartmentResponse(e.Department),
		IsActive:   e.IsActive,
	}
	if e.Position != nil {
		resp.Position = &e.Position.Name
	}
	return resp
}

// NewProfileResponse flattens a user and their profile into the shape
// login, /auth/me and user management return. The user's profile must
// be loaded with its associations.
func NewProfileResponse(u *model.User, fs storage.FileStorage) ProfileResponse {
	resp := ProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}

	p := u.Profile
	if p == nil {
		return resp
	}

	resp.ProfileID = p.ID
	resp.Role = p.Role
	resp.Department = NewDepartmentResponse(p.Department)
	resp.Phone = p.Phone
	resp.BirthDate = p.BirthDate
	resp.Scopus = p.Scopus
	resp.Scholar = p.Scholar
	resp.ResearchID = p.ResearchID
	resp.EmployeeID = p.EmployeeID
	resp.AvatarURL = FileURL(fs, p.AvatarPath)

	if p.Position != nil {
		resp.Position = &p.Position.Name
	}
	for _, n := range p.Names {
		resp.Names = append(resp.Names, NewProfileNameResponse(n))
	}
	for _, e := range p.Employments {
		resp.Employments = append(resp.Employments, NewEmploymentResponse(e))
	}

	return resp
}

func NewUserResponse(u *model.User, fs storage.FileStorage) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Profile:   NewProfileResponse(u, fs),
	}
}

// NewWorkResponse builds the base response shared by all work kinds.
// The kind-specific file path is passed in because it lives on the
// concrete type, not on the embedded base.
func NewWorkResponse(b model.WorkBase, filePath *string, authors []model.Profile, fs storage.FileStorage) WorkResponse {
	resp := WorkResponse{
		ID:                  b.ID,
		Title:               b.Title,
		Year:                b.Year,
		Language:            b.Language,
		FileURL:             FileURL(fs, filePath),
		Authors:             []ProfileShort{},
		Department:          NewDepartmentResponse(b.Department),
		IsDepartmentVisible: b.IsDepartmentVisible,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
	if b.Owner != nil {
		resp.Owner = NewProfileShort(b.Owner)
	}
	for i := range authors {
		resp.Authors = append(resp.Authors, NewProfileShort(&authors[i]))
	}
	return resp
}

func NewStoredFileResponse(f *model.StoredFile, fs storage.FileStorage) StoredFileResponse {
	resp := StoredFileResponse{
		ID:        f.ID,
		URL:       fs.URL(f.Path),
		Size:      f.Size,
		CreatedAt: f.CreatedAt,
	}
	if f.Owner != nil {
		resp.Owner = NewProfileShort(f.Owner)
	}
	return resp
}
