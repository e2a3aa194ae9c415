package mockbackend

func option(id any, name string) map[string]any {
	return map[string]any{"id": id, "name": name}
}

func enumOption(id int, code, value string) map[string]any {
	return map[string]any{"id": id, "code": code, "value": value}
}

func defaultOffices() []Record {
	return []Record{
		{"id": 1, "name": "Head Office", "nameDecorated": "Head Office", "externalId": "HO", "openingDate": []int{2009, 1, 1}},
		{"id": 2, "name": "Lilongwe Branch", "nameDecorated": "....Lilongwe Branch", "parentId": 1, "openingDate": []int{2015, 3, 2}},
		{"id": 3, "name": "Blantyre Branch", "nameDecorated": "....Blantyre Branch", "parentId": 1, "openingDate": []int{2017, 6, 12}},
	}
}

// defaultTemplates mirrors the template endpoint payloads per resource.
func defaultTemplates() map[string]any {
	offices := []map[string]any{}
	for _, office := range defaultOffices() {
		offices = append(offices, option(office["id"], office["name"].(string)))
	}
	accountTypes := []map[string]any{
		enumOption(1, "accountType.savings", "Savings Account"),
		enumOption(2, "accountType.loan", "Loan Account"),
	}
	clientOptions := []map[string]any{
		{"id": 1, "displayName": "Chikondi Banda", "accountNo": "000000001"},
		{"id": 2, "displayName": "Tiwonge Phiri", "accountNo": "000000002"},
	}
	accountOptions := []map[string]any{
		{"id": 11, "accountNo": "SA-000011", "productName": "Passbook savings"},
		{"id": 12, "accountNo": "SA-000012", "productName": "Group savings"},
	}

	return map[string]any{
		"clients": map[string]any{
			"officeId":      1,
			"officeOptions": offices,
			"staffOptions": []map[string]any{
				{"id": 1, "displayName": "Mphatso, Kamwendo"},
				{"id": 2, "displayName": "Grace, Mwale"},
			},
			"clientLegalFormOptions": []map[string]any{
				enumOption(1, "legalFormType.person", "PERSON"),
				enumOption(2, "legalFormType.entity", "ENTITY"),
			},
			"genderOptions": []map[string]any{
				option(21, "Female"),
				option(22, "Male"),
			},
			"clientTypeOptions": []map[string]any{
				option(31, "Individual"),
				option(32, "Corporate"),
			},
			"clientClassificationOptions": []map[string]any{
				option(41, "Farmer"),
				option(42, "Trader"),
			},
		},
		"holidays": []map[string]any{
			enumOption(1, "holidayRepaymentSchedulingType.next.repayment.date", "Reschedule to next repayment date"),
			enumOption(2, "holidayRepaymentSchedulingType.specific.date", "Reschedule to specified date"),
		},
		"tax-components": map[string]any{
			"glAccountTypeOptions": []map[string]any{
				enumOption(1, "accountType.asset", "ASSET"),
				enumOption(2, "accountType.liability", "LIABILITY"),
				enumOption(3, "accountType.equity", "EQUITY"),
				enumOption(4, "accountType.income", "INCOME"),
				enumOption(5, "accountType.expense", "EXPENSE"),
			},
			"glAccountOptions": map[string]any{
				"assetAccountOptions":     []map[string]any{{"id": 101, "name": "Cash on hand", "glCode": "10100"}},
				"liabilityAccountOptions": []map[string]any{{"id": 201, "name": "VAT payable", "glCode": "20100"}, {"id": 202, "name": "Withholding tax", "glCode": "20200"}},
				"equityAccountOptions":    []map[string]any{},
				"incomeAccountOptions":    []map[string]any{{"id": 401, "name": "Fee income", "glCode": "40100"}},
				"expenseAccountOptions":   []map[string]any{},
			},
		},
		"collaterals": map[string]any{
			"allowedCollateralTypes": []map[string]any{
				option(51, "Vehicle"),
				option(52, "Land title"),
				option(53, "Livestock"),
			},
		},
		"transfers": map[string]any{
			"fromOfficeOptions":      offices,
			"fromClientOptions":      clientOptions,
			"fromAccountTypeOptions": accountTypes,
			"fromAccountOptions":     accountOptions,
			"toOfficeOptions":        offices,
			"toClientOptions":        clientOptions,
			"toAccountTypeOptions":   accountTypes,
			"toAccountOptions":       accountOptions,
		},
		"datatable-checks": map[string]any{
			"entities": []string{"m_client", "m_group", "m_center", "m_loan", "m_savings_account"},
			"statusClient": []map[string]any{
				{"code": 100, "value": "create"},
				{"code": 300, "value": "activate"},
				{"code": 600, "value": "close"},
			},
			"statusLoans": []map[string]any{
				{"code": 100, "value": "create"},
				{"code": 200, "value": "approve"},
				{"code": 300, "value": "disburse"},
			},
			"datatables": []map[string]any{
				{"entity": "m_client", "dataTableName": "client_household"},
				{"entity": "m_loan", "dataTableName": "loan_purpose_details"},
			},
			"loanProductDatas": []map[string]any{
				option(61, "Group lending"),
				option(62, "Agri input loan"),
			},
			"savingsProductDatas": []map[string]any{
				option(71, "Passbook savings"),
			},
		},
	}
}
