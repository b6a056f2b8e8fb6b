package domain

// Donor is the search-facing projection of an available, verified profile.
// Distance is a placeholder in km; there is no real geolocation.
type Donor struct {
	Id        UserId    `json:"id"`
	Name      string    `json:"name"`
	BloodType BloodType `json:"blood_type"`
	City      string    `json:"city"`
	Region    string    `json:"region"`
	Phone     *string   `json:"phone,omitempty"`
	Distance  int       `json:"distance"`
}

func DonorFromProfile(p Profile, distance int) Donor {
	return Donor{
		Id:        p.Id,
		Name:      p.Name,
		BloodType: p.BloodType,
		City:      p.City,
		Region:    p.Region,
		Phone:     p.Phone,
		Distance:  distance,
	}
}
