// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

// Provinces is the reference list of the 81 Turkish provinces, in plate
// number order, already in normalized form.
var Provinces = []string{
	"Adana", "Adıyaman", "Afyonkarahisar", "Ağrı", "Amasya", "Ankara",
	"Antalya", "Artvin", "Aydın", "Balıkesir", "Bilecik", "Bingöl",
	"Bitlis", "Bolu", "Burdur", "Bursa", "Çanakkale", "Çankırı", "Çorum",
	"Denizli", "Diyarbakır", "Edirne", "Elazığ", "Erzincan", "Erzurum",
	"Eskişehir", "Gaziantep", "Giresun", "Gümüşhane", "Hakkari", "Hatay",
	"Isparta", "Mersin", "İstanbul", "İzmir", "Kars", "Kastamonu",
	"Kayseri", "Kırklareli", "Kırşehir", "Kocaeli", "Konya", "Kütahya",
	"Malatya", "Manisa", "Kahramanmaraş", "Mardin", "Muğla", "Muş",
	"Nevşehir", "Niğde", "Ordu", "Rize", "Sakarya", "Samsun", "Siirt",
	"Sinop", "Sivas", "Tekirdağ", "Tokat", "Trabzon", "Tunceli",
	"Şanlıurfa", "Uşak", "Van", "Yozgat", "Zonguldak", "Aksaray",
	"Bayburt", "Karaman", "Kırıkkale", "Batman", "Şırnak", "Bartın",
	"Ardahan", "Iğdır", "Yalova", "Karabük", "Kilis", "Osmaniye", "Düzce",
}

var provinceSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(Provinces))
	for _, p := range Provinces {
		s[p] = struct{}{}
	}

	return s
}()

// IsProvince reports whether name, already normalized with NormalizeName,
// is a known province.
func IsProvince(name string) bool {
	_, ok := provinceSet[name]

	return ok
}
