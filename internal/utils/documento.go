package utils

import "strings"

// SomenteDigitos remove pontuação de CPF/CNPJ/telefone.
func SomenteDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func todosIguais(d string) bool {
	return strings.Count(d, d[:1]) == len(d)
}

func digitoVerificador(d string, pesos []int) int {
	soma := 0
	for i, p := range pesos {
		soma += int(d[i]-'0') * p
	}
	r := soma % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func CPFValido(s string) bool {
	d := SomenteDigitos(s)
	if len(d) != 11 || todosIguais(d) {
		return false
	}
	dv1 := digitoVerificador(d, []int{10, 9, 8, 7, 6, 5, 4, 3, 2})
	dv2 := digitoVerificador(d, []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2})
	return int(d[9]-'0') == dv1 && int(d[10]-'0') == dv2
}

func CNPJValido(s string) bool {
	d := SomenteDigitos(s)
	if len(d) != 14 || todosIguais(d) {
		return false
	}
	dv1 := digitoVerificador(d, []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	dv2 := digitoVerificador(d, []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	return int(d[12]-'0') == dv1 && int(d[13]-'0') == dv2
}
