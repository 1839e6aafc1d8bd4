package main

type User struct {
	Id    int    `json:"id"`
	Name  string `json:"name"`
	Cnic  string `json:"cnic"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
